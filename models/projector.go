package models

// Tabs lists the dashboard tabs in display order. Each maps onto exactly
// one order status.
var Tabs = []string{
	"Ongoing Teams",
	"Status",
	"Sizing",
	"Printing",
	"Done Print",
	"To Sew",
	"To Deliver",
	"Finished",
}

var tabStatus = map[string]OrderStatus{
	"Ongoing Teams": StatusOngoing,
	"Status":        StatusDesignReview,
	"Sizing":        StatusSizing,
	"Printing":      StatusPrinting,
	"Done Print":    StatusDonePrint,
	"To Sew":        StatusToSew,
	"To Deliver":    StatusToDeliver,
	"Finished":      StatusFinished,
}

// StatusForTab maps a tab name to its status. Unknown tabs fall back to
// ongoing, matching the dashboard's default view.
func StatusForTab(tab string) OrderStatus {
	if status, ok := tabStatus[tab]; ok {
		return status
	}
	return StatusOngoing
}

// FilterByTab returns the orders visible under the given tab, preserving
// the relative order of the input. Pure and total.
func FilterByTab(orders []Order, tab string) []Order {
	status := StatusForTab(tab)
	filtered := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	return filtered
}
