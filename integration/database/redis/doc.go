// Package redis connects substore to Redis.
//
// Connect creates a go-redis client from a connection URL and verifies it
// with a ping, retrying with exponential backoff:
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL:  "redis://localhost:6379/0",
//		ClientName:     "substore-7f0c",
//		RetryAttempts:  3,
//		RetryInterval:  time.Second,
//		ConnectTimeout: 10 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck returns a ping function suitable for readiness probes.
//
// Connector implements broker.Connector on a dedicated pub/sub connection of
// that client. Run Listen in its own goroutine and consume Events:
//
//	conn := redis.NewConnector(client)
//	defer conn.Close()
//
//	go conn.Listen(ctx)
//	_ = conn.Subscribe(ctx, "orders", "alerts")
//	for evt := range conn.Events() {
//		// EventSubscribe per channel, then EventMessage as messages arrive
//	}
//
// Errors can be checked with errors.Is:
//
//   - ErrEmptyConnectionURL: no connection URL configured
//   - ErrFailedToParseRedisConnString: the URL is malformed
//   - ErrRedisNotReady: Redis did not answer within the retry budget
//   - ErrHealthcheckFailed: the health check ping failed
//   - ErrConnectorClosed: the connector was closed
package redis
