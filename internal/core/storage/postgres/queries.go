package postgres

// SQL queries for the append-only event log.

const (
	// queryAppendEvent inserts one event at head+1 when the caller's expected
	// version matches the head ($4 < 0 skips the check).
	// No rows are returned when the precondition fails; a concurrent writer
	// racing to the same version trips the (aggregate_id, version) unique key.
	queryAppendEvent = `
		WITH head AS (
			SELECT COALESCE(MAX(version), 0) AS version
			FROM events
			WHERE aggregate_id = $1
		)
		INSERT INTO events (
			aggregate_id, aggregate_type, event_type, version, payload
		)
		SELECT $1, $2, $3, head.version + 1, $5
		FROM head
		WHERE $4::bigint < 0 OR head.version = $4::bigint
		RETURNING id
	`

	// queryAggregateHead returns the current version of one aggregate.
	queryAggregateHead = `
		SELECT COALESCE(MAX(version), 0)
		FROM events
		WHERE aggregate_id = $1 AND aggregate_type = $2
	`

	// queryAggregateEvents fetches one aggregate's events filtered by type code.
	queryAggregateEvents = `
		SELECT
			id, aggregate_id, aggregate_type, event_type,
			version, payload, created_at
		FROM events
		WHERE aggregate_id = $1
		  AND aggregate_type = $2
		  AND event_type = ANY($3)
		ORDER BY created_at ASC, id ASC
	`

	// queryFindLatestByPayload finds the newest event whose data field matches.
	// Backed by the partial expression indexes on username and session_id.
	queryFindLatestByPayload = `
		SELECT
			id, aggregate_id, aggregate_type, event_type,
			version, payload, created_at
		FROM events
		WHERE aggregate_type = $1
		  AND event_type = ANY($2)
		  AND payload->'data'->>($3::text) = $4
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
)
