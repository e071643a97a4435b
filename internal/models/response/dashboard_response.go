package response

// DashboardStatisticsResponse represents the admin dashboard counters
type DashboardStatisticsResponse struct {
	TotalResidents int64 `json:"totalResidents" example:"42"`
	TotalFlats     int64 `json:"totalFlats" example:"60"`
	VacantFlats    int64 `json:"vacantFlats" example:"18"`
	PendingBills   int64 `json:"pendingPayments" example:"12"`
	OverdueBills   int64 `json:"overdueBills" example:"3"`
	PaidBills      int64 `json:"paidBills" example:"27"`
}

// BillingStatisticsResponse represents bill counts and sums for a set of bills
type BillingStatisticsResponse struct {
	TotalBills     int64   `json:"totalBills" example:"42"`
	PaidBills      int64   `json:"paidBills" example:"30"`
	PendingBills   int64   `json:"pendingBills" example:"10"`
	OverdueBills   int64   `json:"overdueBills" example:"2"`
	TotalAmount    float64 `json:"totalAmount" example:"210000"`
	PaidAmount     float64 `json:"paidAmount" example:"150000"`
	PendingAmount  float64 `json:"pendingAmount" example:"60000"`
	CollectionRate float64 `json:"collectionRate" example:"71.43"`
}

// BillStatusAggregate is one row of a GROUP BY status aggregation
type BillStatusAggregate struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}
