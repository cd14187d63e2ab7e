package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"courier-booking/config"
	"courier-booking/httpServices/courier"
	"courier-booking/logger"
	"courier-booking/models/shipment"
	"courier-booking/services/invoice"
	"courier-booking/services/tracking"
	"courier-booking/store"
	authTypes "courier-booking/types/auth"
	shipmentTypes "courier-booking/types/shipment"
)

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrNotAdmin    = errors.New("account is not an admin")
)

// State is the client side of the booking system: one REST client per session plus the local stores
type State struct {
	Customer     *courier.Client
	Admin        *courier.Client
	Session      *store.Session
	AdminSession *store.Session
	Shipments    *store.Shipments

	history tracking.HistoryProvider
	now     func() time.Time
}

// Options tunes NewState. Zero values pick the defaults.
type Options struct {
	Timeout time.Duration
	Now     func() time.Time
}

// Load opens the state directory and API named by cfg
func Load(cfg *config.Config, opts Options) (*State, error) {
	storage, err := store.NewFileStorage(cfg.CourierStateDir)
	if err != nil {
		return nil, err
	}
	return NewState(cfg.CourierAPIURL, storage, opts), nil
}

func NewState(baseURL string, storage store.Storage, opts Options) *State {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &State{
		Customer:     courier.NewClient(baseURL, opts.Timeout),
		Admin:        courier.NewClient(baseURL, opts.Timeout),
		Session:      store.NewSession(storage, store.UserSessionKey),
		AdminSession: store.NewSession(storage, store.AdminSessionKey),
		Shipments:    store.NewShipments(storage),
		now:          opts.Now,
	}
	s.Customer.SetToken(s.Session.Token())
	s.Admin.SetToken(s.AdminSession.Token())
	s.Shipments.Load()

	recorded := tracking.ProviderFunc(func(ctx context.Context, sh shipment.Shipment) ([]tracking.Step, error) {
		return s.Customer.Tracking(ctx, sh.Code)
	})
	s.history = tracking.WithFallback(recorded, tracking.Synthesized{Now: opts.Now})
	return s
}

// SignIn exchanges credentials for a customer session
func (s *State) SignIn(ctx context.Context, email, password string) (authTypes.SessionUser, error) {
	req := authTypes.LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return authTypes.SessionUser{}, err
	}
	payload, err := s.Customer.Login(ctx, email, password)
	if err != nil {
		return authTypes.SessionUser{}, err
	}
	s.startSession(ctx, payload)
	return payload.User, nil
}

// SignUp creates a customer account and signs it in
func (s *State) SignUp(ctx context.Context, req authTypes.SignupRequest) (authTypes.SessionUser, error) {
	if err := req.Validate(); err != nil {
		return authTypes.SessionUser{}, err
	}
	payload, err := s.Customer.Signup(ctx, req)
	if err != nil {
		return authTypes.SessionUser{}, err
	}
	s.startSession(ctx, payload)
	return payload.User, nil
}

func (s *State) startSession(ctx context.Context, payload authTypes.AuthPayload) {
	// the cached list belongs to whoever was signed in before
	s.Shipments.Clear()
	s.Customer.SetToken(payload.Token)
	s.Session.Login(payload.User, payload.Token)
	if _, err := s.Sync(ctx); err != nil {
		logger.Error("Failed to sync shipments after sign in", err)
	}
}

// SignInAdmin is SignIn for the admin session. Non-admin accounts are refused.
func (s *State) SignInAdmin(ctx context.Context, email, password string) (authTypes.SessionUser, error) {
	req := authTypes.LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return authTypes.SessionUser{}, err
	}
	payload, err := s.Admin.Login(ctx, email, password)
	if err != nil {
		return authTypes.SessionUser{}, err
	}
	if !payload.User.IsAdmin {
		return authTypes.SessionUser{}, ErrNotAdmin
	}
	s.Admin.SetToken(payload.Token)
	s.AdminSession.Login(payload.User, payload.Token)
	return payload.User, nil
}

// SignOut ends the customer session. Local state is cleared even when the server call fails.
func (s *State) SignOut(ctx context.Context) {
	if s.Session.IsAuthenticated() {
		if err := s.Customer.Logout(ctx); err != nil {
			logger.Error("Logout request failed", err)
		}
	}
	s.Customer.SetToken("")
	s.Session.Logout()
	s.Shipments.Clear()
}

func (s *State) SignOutAdmin(ctx context.Context) {
	if s.AdminSession.IsAuthenticated() {
		if err := s.Admin.Logout(ctx); err != nil {
			logger.Error("Admin logout request failed", err)
		}
	}
	s.Admin.SetToken("")
	s.AdminSession.Logout()
}

// Sync replaces the local shipment list with the server's
func (s *State) Sync(ctx context.Context) ([]shipment.Shipment, error) {
	if !s.Session.IsAuthenticated() {
		return nil, ErrNotSignedIn
	}
	list, err := s.Customer.ListShipments(ctx)
	if err != nil {
		return nil, err
	}
	s.Shipments.Replace(list)
	return s.Shipments.Shipments(), nil
}

// Book validates the form locally, books it and records the priced shipment
func (s *State) Book(ctx context.Context, req shipmentTypes.CreateShipmentRequest) (shipment.Shipment, error) {
	if !s.Session.IsAuthenticated() {
		return shipment.Shipment{}, ErrNotSignedIn
	}
	if err := req.Validate(s.now()); err != nil {
		return shipment.Shipment{}, err
	}
	created, err := s.Customer.CreateShipment(ctx, req)
	if err != nil {
		return shipment.Shipment{}, err
	}
	s.Shipments.AddShipment(created)
	return created, nil
}

// Shipment looks id up on the server while a session is held and refreshes the cached copy.
// Without a session only the cache is consulted. found is false when id is unknown.
func (s *State) Shipment(ctx context.Context, id string) (shipment.Shipment, bool, error) {
	if !s.Session.IsAuthenticated() {
		sh, ok := s.Shipments.GetShipmentByID(id)
		return sh, ok, nil
	}
	sh, err := s.Customer.GetShipment(ctx, id)
	if courier.IsStatus(err, http.StatusNotFound) || errors.Is(err, courier.ErrNoContent) {
		return shipment.Shipment{}, false, nil
	}
	if err != nil {
		return shipment.Shipment{}, false, err
	}
	s.Shipments.Update(sh)
	return sh, true, nil
}

// History returns the tracking steps of a known shipment. Unknown ids never get a made up history.
func (s *State) History(ctx context.Context, id string) (shipment.Shipment, []tracking.Step, bool, error) {
	sh, found, err := s.Shipment(ctx, id)
	if err != nil || !found {
		return sh, nil, found, err
	}
	steps, err := s.history.History(ctx, sh)
	if err != nil {
		return sh, nil, true, err
	}
	return sh, steps, true, nil
}

// Invoice projects a known shipment onto its invoice
func (s *State) Invoice(ctx context.Context, id string) (invoice.Invoice, bool, error) {
	sh, found, err := s.Shipment(ctx, id)
	if err != nil || !found {
		return invoice.Invoice{}, found, err
	}
	return invoice.Project(sh), true, nil
}

// AdminOrders opens a listing bound to the admin session
func (s *State) AdminOrders(notify store.Notifier) (*store.AdminOrders, error) {
	if !s.AdminSession.IsAuthenticated() {
		return nil, ErrNotSignedIn
	}
	return store.NewAdminOrders(s.Admin, notify), nil
}
