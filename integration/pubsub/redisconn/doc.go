// Package redisconn implements the dispatch transport on top of Redis pub/sub.
//
// Each Dial opens a dedicated go-redis PubSub connection. SUBSCRIBE and
// UNSUBSCRIBE replies surface as subscribe and unsubscribe events, published
// messages as message events. When the Redis connection drops, Read returns
// the network error and the dispatch manager dials a replacement and
// resubscribes its channels.
//
// Usage:
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//
//	manager, err := dispatch.New(redisconn.NewDialer(client),
//		dispatch.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	if err := manager.Start(ctx); err != nil {
//		return err
//	}
//	defer manager.Shutdown(context.Background())
package redisconn
