package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	folderEnvVar = "DATA_FOLDER"
	dbFileVar    = "DB_FILE"
)

type StorageConfig interface {
	GetDataFolder() string
	GetDBPath() string
}

type Storage struct {
	v *viper.Viper
}

var _ StorageConfig = Storage{}

func (s Storage) GetDataFolder() string {
	return s.v.GetString(folderEnvVar)
}

// GetDBPath is the bbolt file, relative to the data folder unless absolute
func (s Storage) GetDBPath() string {
	file := s.v.GetString(dbFileVar)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(s.GetDataFolder(), file)
}
