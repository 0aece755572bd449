package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tbestore/storefront/customer/otel"
	"github.com/tbestore/storefront/customer/pkg/request"
	"github.com/tbestore/storefront/customer/pkg/response"
	"github.com/tbestore/storefront/internal/common"
	commonErrors "github.com/tbestore/storefront/internal/common/errors"
	"github.com/tbestore/storefront/internal/config"
	"github.com/tbestore/storefront/internal/log"
	"github.com/tbestore/storefront/internal/recordstore"
	"github.com/tbestore/storefront/internal/session"
)

type CustomerService struct {
	sessions  *session.Store
	customers *recordstore.CustomerRepository
	orders    *recordstore.OrderRepository
	cfg       config.Application
}

func NewCustomerService(
	sessions *session.Store,
	customers *recordstore.CustomerRepository,
	orders *recordstore.OrderRepository,
	cfg config.Application,
) *CustomerService {
	return &CustomerService{
		sessions:  sessions,
		customers: customers,
		orders:    orders,
		cfg:       cfg,
	}
}

// Login authenticates the session. The reserved admin credential is checked
// first and never reaches the record store; it yields a synthetic customer
// with no record id, so admin sessions cannot check out.
func (s *CustomerService) Login(
	c context.Context,
	sessionID string,
	param request.Login,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CustomerService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService Login").
		Str(log.KeyUsername, param.Username).
		Logger()

	if isAdminCredential(param, s.cfg) {
		logger = logger.With().Str(log.KeyProcess, "creating admin session").Logger()
		logger.Info().Msg("creating admin session")
		admin := recordstore.Customer{
			CID:      "admin",
			Name:     "Admin",
			Username: s.cfg.AdminUsername,
		}
		if err := s.sessions.SaveCustomer(c, sessionID, admin); err != nil {
			err = fmt.Errorf("failed creating admin session with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Session{}, err
		}
		token, err := common.CreateToken(c, sessionID, s.cfg)
		if err != nil {
			err = fmt.Errorf("failed creating admin session with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Session{}, err
		}
		logger.Info().Msg("created admin session")
		return response.Session{Token: token, Customer: admin, IsAdmin: true}, nil
	}

	logger = logger.With().Str(log.KeyProcess, "finding customer").Logger()
	logger.Info().Msg("finding customer")
	customer, err := s.customers.FindByUsername(c, param.Username)
	if err != nil {
		err = fmt.Errorf("failed finding customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if customer == nil {
		err = commonErrors.ErrInvalidCredentials
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("found customer")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Info().Msg("verifying password")
	if !verifyPassword(customer.Password, param.Password) {
		err = commonErrors.ErrInvalidCredentials
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("verified password")

	logger = logger.With().Str(log.KeyProcess, "caching session customer").Logger()
	logger.Info().Msg("caching session customer")
	if err = s.sessions.SaveCustomer(c, sessionID, *customer); err != nil {
		err = fmt.Errorf("failed caching session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("cached session customer")

	token, err := common.CreateToken(c, sessionID, s.cfg)
	if err != nil {
		err = fmt.Errorf("failed creating session token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	return response.Session{Token: token, Customer: *customer, IsAdmin: false}, nil
}

func (s *CustomerService) Logout(c context.Context, sessionID string) error {
	c, span := otel.Tracer.Start(c, "CustomerService Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService Logout").
		Str(log.KeyProcess, "clearing session customer").
		Logger()

	logger.Info().Msg("clearing session customer")
	if err := s.sessions.ClearCustomer(c, sessionID); err != nil {
		err = fmt.Errorf("failed clearing session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("cleared session customer")

	return nil
}

// Register creates a customer record with an empty order history and logs
// the new customer in.
func (s *CustomerService) Register(
	c context.Context,
	sessionID string,
	param request.Register,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CustomerService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService Register").
		Str(log.KeyUsername, param.Username).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "checking username").Logger()
	logger.Info().Msg("checking username")
	existing, err := s.customers.FindByUsername(c, param.Username)
	if err != nil {
		err = fmt.Errorf("failed checking username with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if existing != nil {
		err = commonErrors.ErrUsernameTaken
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("checked username")

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Info().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "creating customer").Logger()
	logger.Info().Msg("creating customer")
	customer, err := s.customers.Create(c, recordstore.Customer{
		CID:      NewCustomerID(),
		Name:     param.Name,
		Phone:    param.Phone,
		Address:  param.Address,
		City:     param.City,
		State:    param.State,
		ZipCode:  param.ZipCode,
		Username: param.Username,
		Password: string(hashed),
	})
	if err != nil {
		err = fmt.Errorf("failed creating customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger = logger.With().Str(log.KeyCustomerID, customer.CID).Logger()
	logger.Info().Msg("created customer")

	logger = logger.With().Str(log.KeyProcess, "caching session customer").Logger()
	logger.Info().Msg("caching session customer")
	if err = s.sessions.SaveCustomer(c, sessionID, customer); err != nil {
		err = fmt.Errorf("failed caching session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("cached session customer")

	token, err := common.CreateToken(c, sessionID, s.cfg)
	if err != nil {
		err = fmt.Errorf("failed creating session token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	return response.Session{Token: token, Customer: customer, IsAdmin: false}, nil
}

// Session reports the cached session customer, or ErrSessionNotFound for a
// guest session.
func (s *CustomerService) Session(
	c context.Context,
	sessionID string,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "CustomerService Session")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService Session").
		Str(log.KeyProcess, "loading session customer").
		Logger()

	logger.Info().Msg("loading session customer")
	customer, err := s.sessions.Customer(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed loading session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	if customer == nil {
		err = commonErrors.ErrSessionNotFound
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("loaded session customer")

	return response.Session{
		Customer: *customer,
		IsAdmin:  customer.Username == s.cfg.AdminUsername,
	}, nil
}

// Orders lists the order history for the session customer's CID.
func (s *CustomerService) Orders(
	c context.Context,
	sessionID string,
) (response.Orders, error) {
	c, span := otel.Tracer.Start(c, "CustomerService Orders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService Orders").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "loading session customer").Logger()
	logger.Info().Msg("loading session customer")
	customer, err := s.sessions.Customer(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed loading session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Orders{}, err
	}
	if customer == nil {
		err = commonErrors.ErrSessionNotFound
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Orders{}, err
	}
	logger = logger.With().Str(log.KeyCustomerID, customer.CID).Logger()
	logger.Info().Msg("loaded session customer")

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	orders, err := s.orders.FindByCustomerId(c, customer.CID)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Orders{}, err
	}
	logger.Info().Int("orderCount", len(orders)).Msg("found orders")

	return response.Orders{Orders: orders}, nil
}

// UpdateContact persists edited contact fields and refreshes the cached
// session customer. Empty fields are left untouched.
func (s *CustomerService) UpdateContact(
	c context.Context,
	sessionID string,
	param request.UpdateContact,
) (recordstore.Customer, error) {
	c, span := otel.Tracer.Start(c, "CustomerService UpdateContact")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CustomerService UpdateContact").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "loading session customer").Logger()
	logger.Info().Msg("loading session customer")
	customer, err := s.sessions.Customer(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed loading session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return recordstore.Customer{}, err
	}
	if customer == nil {
		err = commonErrors.ErrSessionNotFound
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return recordstore.Customer{}, err
	}
	if customer.RecordID == "" {
		err = commonErrors.ErrNoCustomerRecord
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return recordstore.Customer{}, err
	}
	logger = logger.With().Str(log.KeyCustomerID, customer.CID).Logger()
	logger.Info().Msg("loaded session customer")

	fields := map[string]interface{}{}
	if param.Name != "" {
		fields["Name"] = param.Name
	}
	if param.Phone != "" {
		fields["Phone"] = param.Phone
	}
	if param.Address != "" {
		fields["Address"] = param.Address
	}
	if param.City != "" {
		fields["City"] = param.City
	}
	if param.State != "" {
		fields["State"] = param.State
	}
	if param.ZipCode != "" {
		fields["ZipCode"] = param.ZipCode
	}
	if len(fields) == 0 {
		return *customer, nil
	}

	logger = logger.With().Str(log.KeyProcess, "updating customer contact").Logger()
	logger.Info().Msg("updating customer contact")
	updated, err := s.customers.Update(c, customer.RecordID, fields)
	if err != nil {
		err = fmt.Errorf("failed updating customer contact with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return recordstore.Customer{}, err
	}
	logger.Info().Msg("updated customer contact")

	logger = logger.With().Str(log.KeyProcess, "refreshing session customer").Logger()
	logger.Info().Msg("refreshing session customer")
	if err = s.sessions.SaveCustomer(c, sessionID, updated); err != nil {
		err = fmt.Errorf("failed refreshing session customer with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return recordstore.Customer{}, err
	}
	logger.Info().Msg("refreshed session customer")

	return updated, nil
}

func isAdminCredential(param request.Login, cfg config.Application) bool {
	userOk := subtle.ConstantTimeCompare([]byte(param.Username), []byte(cfg.AdminUsername))
	passOk := subtle.ConstantTimeCompare([]byte(param.Password), []byte(cfg.AdminPassword))
	return userOk&passOk == 1
}

// verifyPassword accepts bcrypt hashes and, for records predating hashing,
// falls back to a constant-time plaintext comparison.
func verifyPassword(stored, supplied string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// NewCustomerID generates "CUST-" plus six random digits.
func NewCustomerID() string {
	return fmt.Sprintf("CUST-%d", 100000+rand.IntN(900000))
}
