package catalog

import (
	"time"

	"github.com/theirongolddev/optiview/internal/model"
	"github.com/theirongolddev/optiview/internal/synth"
)

type anomalyTemplate struct {
	id, service, provider string
	severity              model.Severity
	classification        string
	summary               string

	// series shape
	days, offset, projDays int
	daily, noise, spike    float64
	growth                 float64

	// nil leaves the value to the trend builder
	baseline, impact, worst *float64
}

func f(v float64) *float64 { return &v }

var staticAnomalies = []anomalyTemplate{
	{
		id: "anom-aws-ec2-spike", service: "Amazon EC2", provider: "AWS",
		severity: model.SeverityCritical, classification: "spike",
		summary: "On-demand c6i fleet scaled out and never scaled back after a load test",
		days:    21, offset: 17, projDays: 10, daily: 2400, noise: 0.06, spike: 2.1, growth: 0.01,
		baseline: f(2400), impact: f(81000), worst: f(170000),
	},
	{
		id: "anom-gcp-bq-sustained", service: "BigQuery", provider: "GCP",
		severity: model.SeverityHigh, classification: "sustained-increase",
		summary: "Scheduled queries scanning unpartitioned tables since a schema change",
		days:    24, offset: 12, projDays: 7, daily: 640, noise: 0.08, spike: 1.6, growth: 0.005,
		impact: f(11500), worst: f(40000),
	},
	{
		id: "anom-azure-egress-new", service: "Bandwidth", provider: "Azure",
		severity: model.SeverityMedium, classification: "new-spend",
		summary: "Cross-region egress from a new replica in West Europe",
		days:    14, offset: 10, projDays: 7, daily: 180, noise: 0.1, spike: 2.5, growth: 0,
		baseline: f(180), impact: f(8100), worst: f(16000),
	},
	{
		id: "anom-aws-s3-drift", service: "Amazon S3", provider: "AWS",
		severity: model.SeverityLow, classification: "drift",
		summary: "Standard-tier storage creeping up without lifecycle rules",
		days:    30, offset: 26, projDays: 14, daily: 410, noise: 0.03, spike: 1.15, growth: 0.003,
		impact: f(1850),
	},
	{
		id: "anom-aws-nat-spike", service: "NAT Gateway", provider: "AWS",
		severity: model.SeverityHigh, classification: "spike",
		summary: "Container image pulls routed through NAT instead of a VPC endpoint",
		days:    10, offset: 3, projDays: 5, daily: 95, noise: 0.12, spike: 4, growth: 0.02,
		baseline: f(95), impact: f(8400), worst: f(14000),
	},
	{
		id: "anom-gcp-gke-idle", service: "Kubernetes Engine", provider: "GCP",
		severity: model.SeverityMedium, classification: "sustained-increase",
		summary: "Node pool minimum raised to 12 during an incident and left in place",
		days:    18, offset: -1, projDays: 0, daily: 720, noise: 0.04,
	},
}

func (t anomalyTemplate) build(gen *synth.Generator, asOf time.Time) model.Anomaly {
	start := asOf.AddDate(0, 0, -t.days)
	series := gen.CostSeries(synth.SeriesOptions{
		Start:            start,
		Days:             t.days,
		Baseline:         t.daily,
		Noise:            t.noise,
		AnomalyOffset:    t.offset,
		SpikeFactor:      t.spike,
		ProjectionDays:   t.projDays,
		ProjectionGrowth: t.growth,
	})

	detected := asOf.Format("2006-01-02")
	if t.offset >= 0 {
		detected = start.AddDate(0, 0, t.offset).Format("2006-01-02")
	}
	return model.Anomaly{
		ID:               t.id,
		Service:          t.service,
		Provider:         t.provider,
		Severity:         t.severity,
		Classification:   t.classification,
		DetectedDate:     detected,
		Summary:          t.summary,
		Baseline:         t.baseline,
		MonthlyImpact:    t.impact,
		WorstCaseMonthly: t.worst,
		Series:           series,
	}
}

type recTemplate struct {
	id, title, provider, resource, category string
	severity                                model.Severity
	status                                  model.Status
	impact                                  float64
	effort                                  string
	daysAgo                                 int
	anomalyID                               string
}

var staticRecommendations = []recTemplate{
	{"rec-aws-ec2-rightsize", "Rightsize c6i.4xlarge web fleet to c6i.2xlarge", "AWS", "asg/web-prod", "rightsizing", model.SeverityCritical, model.StatusOpen, -5120, "medium", 3, "anom-aws-ec2-spike"},
	{"rec-aws-ec2-scale-policy", "Restore target-tracking scale-in on web-prod", "AWS", "asg/web-prod", "idle-resource", model.SeverityHigh, model.StatusOpen, -2250, "low", 3, "anom-aws-ec2-spike"},
	{"rec-aws-ri-compute", "Purchase 1-year Compute Savings Plan for baseline EC2", "AWS", "account/prod", "commitment", model.SeverityHigh, model.StatusSnoozed, -3890, "low", 21, ""},
	{"rec-aws-s3-lifecycle", "Add lifecycle rule moving logs to S3 Glacier Instant Retrieval", "AWS", "s3://acme-logs", "storage-tier", model.SeverityMedium, model.StatusOpen, -1240, "low", 5, "anom-aws-s3-drift"},
	{"rec-aws-ebs-unattached", "Delete 38 unattached gp3 volumes", "AWS", "ebs/us-east-1", "idle-resource", model.SeverityMedium, model.StatusOpen, -612.4, "low", 11, ""},
	{"rec-aws-nat-endpoint", "Add ECR and S3 VPC endpoints to bypass NAT", "AWS", "vpc/prod-use1", "idle-resource", model.SeverityHigh, model.StatusOpen, -2480, "medium", 6, "anom-aws-nat-spike"},
	{"rec-aws-rds-stopped", "Snapshot and remove stopped RDS staging instance", "AWS", "rds/staging-pg", "idle-resource", model.SeverityLow, model.StatusImplemented, -288, "low", 40, ""},
	{"rec-gcp-bq-partition", "Partition events table by ingestion day", "GCP", "bq/analytics.events", "storage-tier", model.SeverityHigh, model.StatusOpen, -3300, "high", 8, "anom-gcp-bq-sustained"},
	{"rec-gcp-gke-nodepool", "Lower default-pool minimum from 12 to 4 nodes", "GCP", "gke/prod-central", "rightsizing", model.SeverityMedium, model.StatusOpen, -1480, "low", 2, "anom-gcp-gke-idle"},
	{"rec-gcp-cud", "Commit to 3-year CUD for n2 cores", "GCP", "project/prod", "commitment", model.SeverityMedium, model.StatusDismissed, -960, "low", 55, ""},
	{"rec-gcp-ip-idle", "Release 14 reserved but unused static IPs", "GCP", "compute/addresses", "idle-resource", model.SeverityLow, model.StatusOpen, -100.8, "low", 14, ""},
	{"rec-azure-egress-replica", "Serve West Europe reads from local replica cache", "Azure", "cosmos/orders", "rightsizing", model.SeverityMedium, model.StatusOpen, -1720, "high", 4, "anom-azure-egress-new"},
	{"rec-azure-vm-bseries", "Move dev VMs to B-series burstable", "Azure", "rg/dev-vms", "rightsizing", model.SeverityLow, model.StatusSnoozed, -415, "medium", 19, ""},
	{"rec-azure-disk-tier", "Downgrade premium SSD on archive VMs to standard HDD", "Azure", "rg/archive", "storage-tier", model.SeverityLow, model.StatusOpen, -233.6, "low", 27, ""},
}

func (t recTemplate) build(asOf time.Time) model.Recommendation {
	return model.Recommendation{
		ID:            t.id,
		Kind:          model.KindCloud,
		Title:         t.title,
		Provider:      t.provider,
		Resource:      t.resource,
		Category:      t.category,
		Severity:      t.severity,
		Status:        t.status,
		MonthlyImpact: t.impact,
		Effort:        t.effort,
		DetectedAt:    asOf.AddDate(0, 0, -t.daysAgo),
		AnomalyID:     t.anomalyID,
	}
}
