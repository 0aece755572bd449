package service

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/tbestore/storefront/internal/config"
	"github.com/tbestore/storefront/internal/recordstore"
	"github.com/tbestore/storefront/internal/recordstore/recordstoretest"
	"github.com/tbestore/storefront/internal/session"
)

const (
	testCustomerBase  = "appCustomers"
	testCustomerTable = "tblCustomers"
	testOrderBase     = "appOrders"
	testOrderTable    = "tblOrders"
)

type (
	setupFunc    func(context.Context) (*redis.Client, *testRedis.RedisContainer, *recordstoretest.Fake, *session.Store, *CheckoutService)
	teardownFunc func(*redis.Client, *testRedis.RedisContainer, *recordstoretest.Fake)
)

func setup(t *testing.T) setupFunc {
	return func(c context.Context) (*redis.Client, *testRedis.RedisContainer, *recordstoretest.Fake, *session.Store, *CheckoutService) {
		redisContainer, err := testRedis.Run(
			c,
			"redis:7.4.2-alpine3.21",
			testRedis.WithLogLevel(testRedis.LogLevelVerbose),
		)
		if err != nil {
			t.Fatalf("failed running redis container with error: %s", err)
		}

		redisConnStr, err := redisContainer.ConnectionString(c)
		if err != nil {
			t.Fatalf("failed getting redis connection string with error: %s", err)
		}

		redisOpt, err := redis.ParseURL(redisConnStr)
		if err != nil {
			t.Fatalf("failed parsing redis connection string with error: %s", err)
		}

		redisClient := redis.NewClient(redisOpt)
		if err = redisClient.Ping(c).Err(); err != nil {
			t.Fatalf("failed ping redis client with error: %s", err)
		}

		fake := recordstoretest.New()
		cfg := config.RecordStore{
			URL:             fake.Server.URL,
			Token:           "test-token",
			CustomerBaseID:  testCustomerBase,
			CustomerTableID: testCustomerTable,
			OrderBaseID:     testOrderBase,
			OrderTableID:    testOrderTable,
		}
		client := recordstore.NewClient(cfg)
		customers := recordstore.NewCustomerRepository(client, cfg)
		orders := recordstore.NewOrderRepository(client, cfg)

		sessions := session.NewStore(redisClient)
		checkoutService := NewCheckoutService(sessions, customers, orders)
		return redisClient, redisContainer, fake, sessions, checkoutService
	}
}

func teardown(t *testing.T) teardownFunc {
	return func(redisClient *redis.Client, redisContainer *testRedis.RedisContainer, fake *recordstoretest.Fake) {
		fake.Close()
		redisClient.Close()
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
}
