package courier

import "errors"

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingFields      = errors.New("all registration fields are required")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
)

// Driver is the logged-in courier identity. It lives for the duration of
// the session and is never persisted.
type Driver struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	CPF             string  `json:"cpf"`
	Address         string  `json:"address"`
	VehicleType     string  `json:"vehicleType"`
	VehiclePlate    string  `json:"vehiclePlate"`
	VehicleModel    string  `json:"vehicleModel"`
	Rating          float64 `json:"rating"`
	TotalDeliveries int     `json:"totalDeliveries"`
}

// Credentials are the login form fields
type Credentials struct {
	Email    string
	Password string
}

// Registration holds the sign-up form fields
type Registration struct {
	Name            string
	Email           string
	Phone           string
	CPF             string
	VehicleType     string
	VehiclePlate    string
	Password        string
	ConfirmPassword string
}

// Validate checks the registration form before any account is created.
// Validation failures never reach the network.
func (r Registration) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return ErrMissingFields
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidatePasswordChange checks a password change form client-side
func ValidatePasswordChange(password, confirm string) error {
	if password == "" {
		return ErrMissingFields
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Name         *string
	Email        *string
	Phone        *string
	CPF          *string
	Address      *string
	VehiclePlate *string
	VehicleModel *string
}

// Apply copies the set fields onto the driver
func (d *Driver) Apply(upd ProfileUpdate) {
	if upd.Name != nil {
		d.Name = *upd.Name
	}
	if upd.Email != nil {
		d.Email = *upd.Email
	}
	if upd.Phone != nil {
		d.Phone = *upd.Phone
	}
	if upd.CPF != nil {
		d.CPF = *upd.CPF
	}
	if upd.Address != nil {
		d.Address = *upd.Address
	}
	if upd.VehiclePlate != nil {
		d.VehiclePlate = *upd.VehiclePlate
	}
	if upd.VehicleModel != nil {
		d.VehicleModel = *upd.VehicleModel
	}
}
