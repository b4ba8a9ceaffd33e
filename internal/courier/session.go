package courier

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/wendydelivery/wendy-courier/pkg/utils"
)

var (
	ErrOffline      = errors.New("courier is offline")
	ErrUnknownOffer = errors.New("offer is not in the feed")
	ErrNotLoggedIn  = errors.New("no courier is logged in")
)

// Session owns the logged-in courier identity, the online flag and the
// scoped loops gated by it. It is created at login and torn down
// explicitly at logout.
type Session struct {
	mu       sync.Mutex
	driver   *Driver
	online   bool
	reporter *ReporterHandle

	api     *Client
	loc     *Reporter
	chat    *Chat
	tracker *Tracker
	log     *slog.Logger
}

// Login validates the credentials form and opens a session for the demo
// courier account. There is no real account backend; any filled-in form
// succeeds.
func Login(creds Credentials, api *Client, pos Positioner, logger *slog.Logger) (*Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	driver := &Driver{
		ID:              2,
		Name:            "Carlos",
		Email:           creds.Email,
		VehicleType:     "Moto",
		VehiclePlate:    "ABC-1234",
		VehicleModel:    "Honda CG 160",
		Rating:          4.8,
		TotalDeliveries: 247,
	}

	return newSession(driver, api, pos, logger), nil
}

// Register validates the sign-up form and opens a session for the new
// courier.
func Register(reg Registration, api *Client, pos Positioner, logger *slog.Logger) (*Session, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	driver := &Driver{
		ID:           2,
		Name:         reg.Name,
		Email:        reg.Email,
		Phone:        reg.Phone,
		CPF:          reg.CPF,
		VehicleType:  reg.VehicleType,
		VehiclePlate: reg.VehiclePlate,
		Rating:       5.0,
	}

	return newSession(driver, api, pos, logger), nil
}

func newSession(driver *Driver, api *Client, pos Positioner, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	// The bearer token is optional on the wire; minting it here exercises
	// the documented auth extension point end to end.
	if token, err := utils.GenerateToken(driver.ID, driver.Name); err == nil {
		api.SetToken(token)
	} else {
		logger.Warn("session token generation failed", "error", err)
	}

	return &Session{
		driver:  driver,
		api:     api,
		loc:     NewReporter(api, pos, logger),
		chat:    NewChat(api, logger),
		tracker: NewTracker(api, driver.ID, logger),
		log:     logger,
	}
}

// Driver returns a copy of the courier identity
func (s *Session) Driver() (Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.driver == nil {
		return Driver{}, ErrNotLoggedIn
	}
	return *s.driver, nil
}

// Online reports the availability flag
func (s *Session) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// SetOnline toggles availability. Going online starts location reporting
// and populates the offer feed; going offline stops the reporter and
// empties the feed.
func (s *Session) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.online == online {
		return
	}
	s.online = online

	if online {
		s.reporter = s.loc.Start()
		s.log.Info("courier online")
		return
	}

	if s.reporter != nil {
		s.reporter.Stop()
		s.reporter = nil
	}
	s.log.Info("courier offline")
}

// Offers returns the candidate deliveries. The feed is derived state:
// the static list while online, empty while offline.
func (s *Session) Offers() []DeliveryOffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.online {
		return nil
	}
	return StaticOffers()
}

// AcceptOffer accepts an offer from the feed. Valid only while online
// and with no delivery already active.
func (s *Session) AcceptOffer(offerID uint) (*ActiveDelivery, error) {
	s.mu.Lock()
	online := s.online
	s.mu.Unlock()

	if !online {
		return nil, ErrOffline
	}

	for _, offer := range StaticOffers() {
		if offer.ID == offerID {
			return s.tracker.Accept(offer)
		}
	}
	return nil, ErrUnknownOffer
}

// Deliveries returns the lifecycle tracker
func (s *Session) Deliveries() *Tracker {
	return s.tracker
}

// Chat returns the chat component
func (s *Session) Chat() *Chat {
	return s.chat
}

// UpdateProfile applies a profile edit to the session driver
func (s *Session) UpdateProfile(upd ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.driver == nil {
		return ErrNotLoggedIn
	}
	s.driver.Apply(upd)
	return nil
}

// Logout tears the session down: offline, active delivery discarded.
func (s *Session) Logout() {
	s.SetOnline(false)
	s.tracker.discard()

	s.mu.Lock()
	s.driver = nil
	s.mu.Unlock()

	s.log.Info("courier logged out")
}
