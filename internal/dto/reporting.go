package dto

// ReportPeriodParams defines the date range of a period report.
type ReportPeriodParams struct {
	From string `form:"from" binding:"required"` // YYYY-MM-DD
	To   string `form:"to" binding:"required"`   // YYYY-MM-DD
}

// ReportAsOfParams defines the as-of date of a point-in-time report.
type ReportAsOfParams struct {
	AsOf string `form:"asOf" binding:"required"` // YYYY-MM-DD
}
