package storage

const (
	settingsKey = "settings"
	localKey    = "local"
	changesKey  = "changes"
)

const (
	ChangeAdded   = "added"
	ChangeUpdated = "updated"
	ChangeRemoved = "removed"
)

const defaultChangeLimit = 50

func changeLimit(limit int) int {
	if limit <= 0 {
		return defaultChangeLimit
	}
	return limit
}
