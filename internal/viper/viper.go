// Package viper provides the dataprep-wide instance of Viper shared by
// the import, verify, and list-presets commands, avoiding Viper's global
// instance, which can cause conflicts
package viper

import (
	"sync"

	spfviper "github.com/spf13/viper"
)

var (
	instance *spfviper.Viper
	mu       = sync.Mutex{}
)

// Instance provides the instance of Viper, or lazy-loads a new one
// if one has not been defined.
func Instance() *spfviper.Viper {
	if instance != nil {
		return instance
	}

	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = spfviper.New()
	}
	return instance
}
