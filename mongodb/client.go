package mongodb

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/v2/mongo/otelmongo"
)

// UsersCollection stores registered users.
const UsersCollection = "users"

var (
	clientInstance *mongo.Client
	clientOnce     sync.Once
	dbInstance     *mongo.Database
	dbOnce         sync.Once
)

// InitMongoDB initializes the MongoDB client and database instances. It
// should be called once at application startup.
func InitMongoDB(ctx context.Context, uri, dbName string) error {
	var err error
	clientOnce.Do(func() {
		clientOptions := options.Client().
			ApplyURI(uri).
			SetConnectTimeout(10 * time.Second).
			SetMonitor(otelmongo.NewMonitor())

		client, connectErr := mongo.Connect(clientOptions)
		if connectErr != nil {
			err = connectErr
			return
		}

		if pingErr := client.Ping(ctx, readpref.Primary()); pingErr != nil {
			err = pingErr
			return
		}

		clientInstance = client
		log.Info().Str("db", dbName).Msg("MongoDB client initialized")
	})
	if err != nil {
		return err
	}
	if clientInstance == nil {
		return errors.New("mongodb client not initialized")
	}

	dbOnce.Do(func() {
		dbInstance = clientInstance.Database(dbName)
	})
	return nil
}

// GetDB returns the initialized database instance.
func GetDB() *mongo.Database {
	return dbInstance
}

// Close disconnects the MongoDB client.
func Close(ctx context.Context) error {
	if clientInstance == nil {
		return nil
	}
	return clientInstance.Disconnect(ctx)
}
