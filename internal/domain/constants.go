package domain

const (
	RoleUser   = "user"
	RoleDealer = "dealer"
	RoleAdmin  = "admin"
)

const (
	CarStatusPending  = "pending"
	CarStatusActive   = "active"
	CarStatusSold     = "sold"
	CarStatusRented   = "rented"
	CarStatusInactive = "inactive"
	CarStatusRejected = "rejected"
)

// OwnerStatuses are the statuses an owner may set directly; the
// pending -> active / pending -> deleted transitions belong to the
// moderation workflow only.
var OwnerStatuses = []string{CarStatusActive, CarStatusSold, CarStatusRented, CarStatusInactive}

const (
	OwnerTypePrivate = "private"
	OwnerTypeDealer  = "dealer"
)

const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
	ListingTypeBoth = "both"
)

const (
	NotificationCarApprovalPending = "car_approval_pending"
	NotificationCarApproved        = "car_approved"
	NotificationCarRejected        = "car_rejected"
	NotificationCarInquiry         = "car_inquiry"
)

// Closed vocabularies for car listing fields.
var (
	FuelTypes     = []string{"gasoline", "diesel", "electric", "hybrid", "lpg", "cng"}
	Transmissions = []string{"manual", "automatic", "cvt", "semi-automatic"}
	Drivetrains   = []string{"fwd", "rwd", "awd", "4wd"}
	Categories    = []string{"sedan", "suv", "hatchback", "coupe", "convertible", "wagon", "truck", "van", "motorcycle"}
	BodyTypes     = []string{"2-door", "4-door", "5-door", "pickup", "van", "other"}
	Conditions    = []string{"new", "like-new", "excellent", "good", "fair", "poor"}
	ListingTypes  = []string{ListingTypeSale, ListingTypeRent, ListingTypeBoth}
	PriceTypes    = []string{"fixed", "negotiable"}
)

const DefaultRejectionReason = "No reason provided"
