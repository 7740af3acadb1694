// Package mongo implements storage.DocumentWriter on a MongoDB collection
// using the official driver.
//
// Configuration is read from the environment through Config's struct tags:
//
//	MONGODB_URI              (required)
//	MONGODB_DATABASE         (required)
//	MONGODB_COLLECTION       (default: test_cases)
//	MONGODB_CONNECT_TIMEOUT  (default: 10s)
//
// Open verifies the connection with a ping before returning, so a wrong URI
// fails at startup rather than on the first write.
package mongo
