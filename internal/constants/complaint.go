package constants

type Category string

const (
	CategoryBilling   Category = "Billing"
	CategoryTechnical Category = "Technical"
	CategoryDelivery  Category = "Delivery"
	CategoryOther     Category = "Other"
)

var Categories = []Category{CategoryBilling, CategoryTechnical, CategoryDelivery, CategoryOther}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

type ComplaintStatus string

const (
	StatusNew        ComplaintStatus = "New"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusOnHold     ComplaintStatus = "On Hold"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusClosed     ComplaintStatus = "Closed"
	StatusReopened   ComplaintStatus = "Reopened"
)

var Statuses = []ComplaintStatus{
	StatusNew,
	StatusInProgress,
	StatusOnHold,
	StatusResolved,
	StatusClosed,
	StatusReopened,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

func (s ComplaintStatus) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// RequiresResolution reports whether entering s needs resolution text.
func (s ComplaintStatus) RequiresResolution() bool {
	return s == StatusResolved || s == StatusClosed
}
