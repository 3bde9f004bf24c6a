package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"fintel/internal/model"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: #667eea; color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
  .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
  .stat-card { background: white; padding: 20px; margin: 15px 0; border-radius: 8px; }
  .stat-title { font-size: 14px; color: #666; margin-bottom: 5px; }
  .stat-value { font-size: 32px; font-weight: bold; color: #667eea; }
  .anomaly-item { display: flex; justify-content: space-between; padding: 12px; background: white; margin: 8px 0; border-radius: 6px; border-left: 4px solid #ef4444; }
  .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Anomaly Report</h1>
    <p>Invoice Compliance Analysis - {{.Period}}</p>
  </div>
  <div class="content">
    <div class="stat-card">
      <div class="stat-title">Total Invoices Processed</div>
      <div class="stat-value">{{.InvoiceCount}}</div>
    </div>
    <div class="stat-card">
      <div class="stat-title">Total Anomalies Detected</div>
      <div class="stat-value">{{.TotalAnomalies}}</div>
    </div>
    <h2>Anomaly Breakdown</h2>
    <div class="anomaly-item">
      <div><strong>Duplicate Invoices</strong></div>
      <div>{{.Duplicates}}</div>
    </div>
    <div class="anomaly-item">
      <div><strong>GST Vendor Mismatches</strong></div>
      <div>{{.GstMismatches}}</div>
    </div>
    <div class="anomaly-item">
      <div><strong>Missing GST Numbers</strong></div>
      <div>{{.MissingGst}}</div>
    </div>
    <p><strong>Action Required:</strong> please review the detected anomalies and take corrective action.</p>
  </div>
  <div class="footer">
    <p>Automated report from the invoice compliance service</p>
  </div>
</div>
</body>
</html>`))

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: #667eea; color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
  .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
  .stat-card { background: white; padding: 20px; border-radius: 8px; text-align: center; margin: 10px 0; }
  .stat-value { font-size: 28px; font-weight: bold; color: #667eea; }
  .stat-label { font-size: 14px; color: #666; margin-top: 5px; }
  .vendor-item { padding: 10px; border-bottom: 1px solid #eee; }
  .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>{{if eq .Period "weekly"}}Weekly{{else}}Daily{{end}} Digest</h1>
    <p>{{.Date}}</p>
  </div>
  <div class="content">
    <div class="stat-card">
      <div class="stat-value">{{.InvoicesProcessed}}</div>
      <div class="stat-label">Invoices Processed</div>
    </div>
    <div class="stat-card">
      <div class="stat-value">{{.AnomaliesDetected}}</div>
      <div class="stat-label">Anomalies Detected</div>
    </div>
    <div class="stat-card">
      <div class="stat-value">&#8377;{{printf "%.2f" .TotalAmount}}</div>
      <div class="stat-label">Total Amount Processed</div>
    </div>
    <h3>Top Vendors</h3>
    {{range $i, $v := .TopVendors}}
    <div class="vendor-item">
      <strong>{{$v.Name}}</strong>
      <span style="float: right; color: #667eea;">{{$v.Count}} invoices</span>
    </div>
    {{else}}
    <div class="vendor-item">No vendor activity in this period.</div>
    {{end}}
  </div>
  <div class="footer">
    <p>Automated digest from the invoice compliance service</p>
  </div>
</div>
</body>
</html>`))

var alertTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .alert-box { background: #fee; border: 2px solid #ef4444; border-radius: 10px; padding: 30px; }
  .alert-title { font-size: 24px; font-weight: bold; color: #ef4444; text-align: center; margin-bottom: 20px; }
  .detail-row { padding: 12px; background: white; margin: 10px 0; border-radius: 6px; }
  .detail-label { font-weight: bold; color: #666; }
</style>
</head>
<body>
<div class="container">
  <div class="alert-box">
    <div class="alert-title">High Priority Anomaly Detected</div>
    <div class="detail-row">
      <div class="detail-label">Anomaly Type:</div>
      <div>{{.AnomalyType}}</div>
    </div>
    <div class="detail-row">
      <div class="detail-label">Invoice Number:</div>
      <div>{{.InvoiceNumber}}</div>
    </div>
    <div class="detail-row">
      <div class="detail-label">Vendor:</div>
      <div>{{.VendorName}}</div>
    </div>
    <div class="detail-row">
      <div class="detail-label">Description:</div>
      <div>{{.Description}}</div>
    </div>
  </div>
</div>
</body>
</html>`))

func renderReport(data model.ReportData) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render report: %w", err)
	}
	subject = fmt.Sprintf("Anomaly Report - %d Issues Detected (%s)", data.TotalAnomalies, data.Period)
	return subject, buf.String(), nil
}

func renderDigest(data model.DigestReport) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render digest: %w", err)
	}
	label := "Daily Digest"
	if data.Period == model.PeriodWeekly {
		label = "Weekly Digest"
	}
	subject = fmt.Sprintf("%s - %s", label, data.Date)
	return subject, buf.String(), nil
}

func renderAlert(data model.AlertData) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render alert: %w", err)
	}
	subject = fmt.Sprintf("URGENT: High Priority Anomaly - %s", data.AnomalyType)
	return subject, buf.String(), nil
}
