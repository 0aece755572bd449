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

	testAdminUsername = "admincontrol@5678"
	testAdminPassword = "test-admin-password"
)

type (
	setupFunc    func(context.Context) (*redis.Client, *testRedis.RedisContainer, *recordstoretest.Fake, *session.Store, *CustomerService)
	teardownFunc func(*redis.Client, *testRedis.RedisContainer, *recordstoretest.Fake)
)

func setup(t *testing.T) setupFunc {
	return func(c context.Context) (*redis.Client, *testRedis.RedisContainer, *recordstoretest.Fake, *session.Store, *CustomerService) {
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
		storeCfg := config.RecordStore{
			URL:             fake.Server.URL,
			Token:           "test-token",
			CustomerBaseID:  testCustomerBase,
			CustomerTableID: testCustomerTable,
			OrderBaseID:     testOrderBase,
			OrderTableID:    testOrderTable,
		}
		client := recordstore.NewClient(storeCfg)
		customers := recordstore.NewCustomerRepository(client, storeCfg)
		orders := recordstore.NewOrderRepository(client, storeCfg)

		appCfg := config.Application{
			Env:           "test",
			SecretKey:     "test-secret-key",
			AdminUsername: testAdminUsername,
			AdminPassword: testAdminPassword,
		}
		sessions := session.NewStore(redisClient)
		customerService := NewCustomerService(sessions, customers, orders, appCfg)
		return redisClient, redisContainer, fake, sessions, customerService
	}
}

func customerWithCID(cid string) recordstore.Customer {
	return recordstore.Customer{RecordID: "rec-" + cid, CID: cid, Username: "user-" + cid}
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
