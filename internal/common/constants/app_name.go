package constants

const (
	AppStorefrontService = "storefront-service"
	AppAdminService      = "admin-service"
	AppMain              = "main tbe-storefront"
	AudienceCustomer     = "audience-customer"
)
