// Package mongo connects to MongoDB through the official v2 driver with
// startup retries and exposes a readiness check.
//
// The database returned by NewWithDatabase holds the session collection used
// by session.MongoStore when SESSION_BACKEND=mongo.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	client, db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil { return err }
//	defer client.Disconnect(context.Background())
//
//	store := session.NewMongoStore(db.Collection("telegram_sessions"))
//	if err := store.EnsureIndexes(ctx); err != nil { return err }
//
//	ready := mongo.Healthcheck(client)
package mongo
