package sqlc

import "time"

const (
	QuerierCtxTimeout = time.Second * 10
)

type DbManager struct {
	Analytics *AnalyticsManager
}

// NewDbManager accepts a nil Querier for servers running without a
// database.
func NewDbManager(queries Querier) DbManager {
	return DbManager{
		Analytics: NewAnalyticsManager(queries),
	}
}
