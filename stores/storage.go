package stores

import (
	"os"

	"moodboard/core"
	"moodboard/stores/aws"
	"moodboard/stores/filesystem"
	"moodboard/stores/memory"
	"moodboard/stores/sqlite"

	"github.com/sirupsen/logrus"
)

// GetStore selects the persistence backend from the STORAGE_TYPE environment
// variable. Unset or unknown values fall back to the in-memory store.
func GetStore() core.LibraryStore {
	storageType := os.Getenv("STORAGE_TYPE")
	var store core.LibraryStore

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	switch storageType {
	case "filesystem":
		basePath := os.Getenv("LOCAL_STORAGE_PATH")
		if basePath == "" {
			basePath = "./data" // Default path
		}
		storageField["basePath"] = basePath
		store = filesystem.NewStore(basePath)
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		if dataSourceName == "" {
			dataSourceName = "moodboard.db" // Default filename
		}
		storageField["dataSourceName"] = dataSourceName
		store = sqlite.NewStore(dataSourceName)
	case "s3":
		bucketName := os.Getenv("S3_BUCKET_NAME")
		if bucketName == "" {
			logrus.Fatal("S3_BUCKET_NAME environment variable must be set for s3 storage type")
		}
		storageField["bucketName"] = bucketName
		store = aws.NewStore(bucketName)
	default:
		store = memory.NewStore()
		storageField["storageType"] = "in-memory"
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
