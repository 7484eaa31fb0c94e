package domain

// Seller is an artisan account that owns zero or more products. Sellers are
// provisioned out-of-band (seed data) and read-only through this service.
type Seller struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// SellerAuth carries the credential hash for the login flow. It is the only
// representation that exposes PasswordHash and never leaves the service layer.
type SellerAuth struct {
	ID           string
	Name         string
	PasswordHash *string
}
