package types

var SystemTypes = []string{
	"ERP",
	"CRM",
	"E-commerce",
	"Mobile App",
	"Social Network",
	"IoT",
	"Streaming Platform",
	"Cloud Database",
	"Project Management System",
	"Wearable Devices",
	"Data Analytics Platform",
	"Marketplace",
}

var DataKinds = []string{
	"transactional",
	"log",
	"analytic",
	"sensor",
	"media",
	"document",
}

var LatencyClasses = []string{
	"real-time",
	"near real-time",
	"batch",
	"daily",
	"weekly",
	"monthly",
}

var Destinations = []string{
	"Data Warehouse",
	"Data Lake",
	"Business Intelligence",
	"Machine Learning",
	"Analytics Dashboards",
	"API Gateway",
}

var FlowStatuses = []string{
	"active",
	"inactive",
	"maintenance",
	"testing",
}

var AnalysisTypes = []string{
	"Trend Analysis",
	"Demand Forecasting",
	"Customer Segmentation",
	"Churn Analysis",
	"Process Optimization",
	"Fraud Detection",
	"Credit Risk Analysis",
	"Customer Satisfaction Analysis",
	"Product Performance Analysis",
	"Transaction Behavior Analysis",
	"Service Pricing Analysis",
	"Customer Value Modeling",
}

func contains(vocab []string, v string) bool {
	for _, s := range vocab {
		if s == v {
			return true
		}
	}
	return false
}
