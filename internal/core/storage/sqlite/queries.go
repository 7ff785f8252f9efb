package sqlite

// SQL queries for the SQLite event log. Placeholders are positional, so
// parameters used twice are bound twice.

const (
	queryAppendEvent = `
		INSERT INTO events (
			aggregate_id, aggregate_type, event_type, version, payload, created_at
		)
		SELECT ?, ?, ?, head.version + 1, ?, ?
		FROM (
			SELECT COALESCE(MAX(version), 0) AS version
			FROM events
			WHERE aggregate_id = ?
		) AS head
		WHERE ? < 0 OR head.version = ?
		RETURNING id
	`

	queryAggregateHead = `
		SELECT COALESCE(MAX(version), 0)
		FROM events
		WHERE aggregate_id = ? AND aggregate_type = ?
	`

	// queryAggregateEvents takes the type filter as a JSON array.
	queryAggregateEvents = `
		SELECT
			id, aggregate_id, aggregate_type, event_type,
			version, payload, created_at
		FROM events
		WHERE aggregate_id = ?
		  AND aggregate_type = ?
		  AND event_type IN (SELECT value FROM json_each(?))
		ORDER BY created_at ASC, id ASC
	`

	queryFindLatestByPayload = `
		SELECT
			id, aggregate_id, aggregate_type, event_type,
			version, payload, created_at
		FROM events
		WHERE aggregate_type = ?
		  AND event_type IN (SELECT value FROM json_each(?))
		  AND json_extract(payload, '$.data.' || ?) = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
)
