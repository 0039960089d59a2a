// Package metric implements dao.IMetricDAO.
//
// Measurements are stored with minute precision in one sorted set per site,
// metric unit and UTC day. The score of a member is its minute of the day, the
// member itself is "<value>:<minute>" so equal values of different minutes do
// not collapse into one member. Every write refreshes the expiration of the
// day key (14 days).
//
// GetRecent walks backwards day by day, starting at the minute of the given
// timestamp, until enough measurements were collected or MaxRecentDays days
// were examined. The result is ordered newest first.
package metric
