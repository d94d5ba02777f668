package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gympulse/gympulse/app/models"
	"github.com/gympulse/gympulse/internal/pkg/cache"
	"github.com/gympulse/gympulse/internal/pkg/database"
)

const (
	CacheKeyActiveMembers  = "statistics:members:active"
	CacheKeyCheckinsToday  = "statistics:checkins:today"
	CacheKeyPendingPayment = "statistics:memberships:pending_payment"
	CacheExpiration        = 30 * time.Minute
)

// DashboardData holds the counters shown on the start page
type DashboardData struct {
	ActiveMembers  int
	CheckinsToday  int
	PendingPayment int
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache checks whether the cache is stale
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached counters when the interval passed
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// UpdateStatisticsCache recomputes all dashboard counters and stores them
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var activeMembers int64
	if err := db.Model(&models.Member{}).Where("active = ?", true).Count(&activeMembers).Error; err != nil {
		log.Printf("Error counting active members: %v", err)
		return err
	}

	todayStart := time.Now().Truncate(24 * time.Hour)
	var checkinsToday int64
	if err := db.Model(&models.AccessLog{}).
		Where("allowed = ? AND created_at >= ?", true, todayStart).
		Count(&checkinsToday).Error; err != nil {
		log.Printf("Error counting today's check-ins: %v", err)
		return err
	}

	var pendingPayment int64
	if err := db.Model(&models.Membership{}).
		Where("status = ?", models.MEMBERSHIP_STATUS_PENDING_PAYMENT).
		Count(&pendingPayment).Error; err != nil {
		log.Printf("Error counting pending memberships: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyActiveMembers, strconv.FormatInt(activeMembers, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyCheckinsToday, strconv.FormatInt(checkinsToday, 10), CacheExpiration); err != nil {
		return err
	}
	return cache.Set(CacheKeyPendingPayment, strconv.FormatInt(pendingPayment, 10), CacheExpiration)
}

// GetDashboardData reads the counters from cache, refreshing when needed
func GetDashboardData() DashboardData {
	UpdateCacheIfNeeded()

	data := DashboardData{}
	if v, err := cache.GetInt(CacheKeyActiveMembers); err == nil {
		data.ActiveMembers = v
	}
	if v, err := cache.GetInt(CacheKeyCheckinsToday); err == nil {
		data.CheckinsToday = v
	}
	if v, err := cache.GetInt(CacheKeyPendingPayment); err == nil {
		data.PendingPayment = v
	}
	return data
}
