package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tbestore/storefront/customer/pkg/request"
	commonErrors "github.com/tbestore/storefront/internal/common/errors"
)

func TestLoginAdminShortCircuit(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, customerService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	sessionID := "session-admin-login"
	sess, err := customerService.Login(c, sessionID, request.Login{
		Username: testAdminUsername,
		Password: testAdminPassword,
	})
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin)
	assert.NotEmpty(t, sess.Token)
	assert.Empty(t, sess.Customer.RecordID, "admin session has no customer record")
	assert.Equal(t, 0, fake.Requests(), "admin login never reaches the record store")

	cached, err := sessions.Customer(c, sessionID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, testAdminUsername, cached.Username)
}

func TestLoginBcrypt(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, customerService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	hashed, err := bcrypt.GenerateFromPassword([]byte("opensesame"), bcrypt.DefaultCost)
	require.NoError(t, err)
	fake.Seed(testCustomerBase, testCustomerTable, "recCust01", map[string]interface{}{
		"CID":      "CUST-100001",
		"Name":     "Jordan Avery",
		"Username": "jordan",
		"Password": string(hashed),
		"OrderID":  "",
	})

	sessionID := "session-bcrypt-login"
	sess, err := customerService.Login(c, sessionID, request.Login{
		Username: "jordan",
		Password: "opensesame",
	})
	require.NoError(t, err)
	assert.False(t, sess.IsAdmin)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "CUST-100001", sess.Customer.CID)

	cached, err := sessions.Customer(c, sessionID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "jordan", cached.Username)

	_, err = customerService.Login(c, sessionID, request.Login{
		Username: "jordan",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, commonErrors.ErrInvalidCredentials)
}

func TestLoginLegacyPlaintext(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, _, customerService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	fake.Seed(testCustomerBase, testCustomerTable, "recCust02", map[string]interface{}{
		"CID":      "CUST-100002",
		"Name":     "Sam Reed",
		"Username": "sam",
		"Password": "legacy-password",
		"OrderID":  "",
	})

	sess, err := customerService.Login(c, "session-legacy", request.Login{
		Username: "sam",
		Password: "legacy-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "CUST-100002", sess.Customer.CID)
}

func TestLoginUnknownUsername(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, customerService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	sessionID := "session-unknown"
	_, err := customerService.Login(c, sessionID, request.Login{
		Username: "nobody",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, commonErrors.ErrInvalidCredentials)

	cached, err := sessions.Customer(c, sessionID)
	require.NoError(t, err)
	assert.Nil(t, cached, "failed login leaves the session untouched")
}

func TestRegister(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, customerService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	sessionID := "session-register"
	sess, err := customerService.Register(c, sessionID, request.Register{
		Name:            "Riley Chen",
		Phone:           "555-0101",
		Address:         "9 Elm Street",
		Username:        "riley",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Regexp(t, `^CUST-\d{6}$`, sess.Customer.CID)
	assert.Empty(t, sess.Customer.OrderID)

	records := fake.Records(testCustomerBase, testCustomerTable)
	require.Len(t, records, 1)
	stored, _ := records[0].Fields["Password"].(string)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("supersecret")))

	cached, err := sessions.Customer(c, sessionID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "riley", cached.Username)

	_, err = customerService.Register(c, "session-register-dup", request.Register{
		Name:            "Riley Impostor",
		Phone:           "555-0102",
		Address:         "10 Elm Street",
		Username:        "riley",
		Password:        "anothersecret",
		ConfirmPassword: "anothersecret",
	})
	assert.ErrorIs(t, err, commonErrors.ErrUsernameTaken)
}

func TestOrders(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, customerService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	fake.Seed(testOrderBase, testOrderTable, "recOrd01", map[string]interface{}{
		"OrderID": "TBE-111111",
		"CID":     "CUST-100001",
	})
	fake.Seed(testOrderBase, testOrderTable, "recOrd02", map[string]interface{}{
		"OrderID": "TBE-222222",
		"CID":     "CUST-999999",
	})

	sessionID := "session-orders"
	require.NoError(t, sessions.SaveCustomer(c, sessionID, customerWithCID("CUST-100001")))

	orders, err := customerService.Orders(c, sessionID)
	require.NoError(t, err)
	require.Len(t, orders.Orders, 1)
	assert.Equal(t, "TBE-111111", orders.Orders[0].OrderID)

	_, err = customerService.Orders(c, "session-guest")
	assert.ErrorIs(t, err, commonErrors.ErrSessionNotFound)
}

func TestUpdateContact(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, customerService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	fake.Seed(testCustomerBase, testCustomerTable, "recCust03", map[string]interface{}{
		"CID":      "CUST-100003",
		"Name":     "Drew Fox",
		"Phone":    "555-0100",
		"Username": "drew",
		"OrderID":  "",
	})

	sessionID := "session-contact"
	customer := customerWithCID("CUST-100003")
	customer.RecordID = "recCust03"
	customer.Name = "Drew Fox"
	require.NoError(t, sessions.SaveCustomer(c, sessionID, customer))

	updated, err := customerService.UpdateContact(c, sessionID, request.UpdateContact{
		Phone: "555-0199",
		City:  "Portland",
	})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "Portland", updated.City)
	assert.Equal(t, "Drew Fox", updated.Name, "untouched fields keep their value")

	cached, err := sessions.Customer(c, sessionID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "555-0199", cached.Phone)
}

func TestLogout(t *testing.T) {
	c := context.Background()
	redisClient, redisContainer, fake, sessions, customerService := setup(t)(c)
	defer teardown(t)(redisClient, redisContainer, fake)

	sessionID := "session-logout"
	require.NoError(t, sessions.SaveCustomer(c, sessionID, customerWithCID("CUST-100005")))

	require.NoError(t, customerService.Logout(c, sessionID))

	cached, err := sessions.Customer(c, sessionID)
	require.NoError(t, err)
	assert.Nil(t, cached)

	_, err = customerService.Session(c, sessionID)
	assert.ErrorIs(t, err, commonErrors.ErrSessionNotFound)
}
