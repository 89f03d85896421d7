package datastore

import (
	"sync"

	"github.com/rs/zerolog"
)

// URLMutexManager hands out one mutex per URL so concurrent checks never
// rewrite the same snapshot file at once.
type URLMutexManager struct {
	mutexes map[string]*sync.Mutex
	mapLock sync.RWMutex
	logger  zerolog.Logger
}

// NewURLMutexManager creates a new URL mutex manager
func NewURLMutexManager(logger zerolog.Logger) *URLMutexManager {
	return &URLMutexManager{
		mutexes: make(map[string]*sync.Mutex),
		logger:  logger.With().Str("component", "URLMutexManager").Logger(),
	}
}

// GetMutex returns the mutex for the given URL, creating it on first use.
func (umm *URLMutexManager) GetMutex(url string) *sync.Mutex {
	umm.mapLock.RLock()
	mutex, exists := umm.mutexes[url]
	umm.mapLock.RUnlock()

	if exists {
		return mutex
	}

	umm.mapLock.Lock()
	defer umm.mapLock.Unlock()

	// Double-check after acquiring write lock
	if mutex, exists := umm.mutexes[url]; exists {
		return mutex
	}

	mutex = &sync.Mutex{}
	umm.mutexes[url] = mutex
	return mutex
}

// CleanupUnusedMutexes drops mutexes for URLs no longer monitored.
func (umm *URLMutexManager) CleanupUnusedMutexes(activeURLs []string) {
	activeSet := make(map[string]struct{}, len(activeURLs))
	for _, url := range activeURLs {
		activeSet[url] = struct{}{}
	}

	umm.mapLock.Lock()
	defer umm.mapLock.Unlock()

	for url := range umm.mutexes {
		if _, active := activeSet[url]; !active {
			delete(umm.mutexes, url)
		}
	}

	umm.logger.Debug().
		Int("active_mutexes", len(umm.mutexes)).
		Msg("Cleaned up unused URL mutexes")
}
