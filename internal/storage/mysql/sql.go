package mysql

const insertBookingSQL = `
INSERT INTO bookings
  (reference, package_id, package_name, customer, destination_code,
   departure_date, return_date, flight_offers, hotel_rows, outcome, report, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertMissSQL = `
INSERT INTO lookup_misses (package_id, stage, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  reason  = VALUES(reason),
  hits    = hits + 1,
  seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const selectBookingColumns = `
SELECT
  reference, package_id, package_name, customer, destination_code,
  departure_date, return_date, flight_offers, hotel_rows, outcome, report, created_at
FROM bookings
`

// Newest first; customer filter is optional.
const listBookingsSQL = selectBookingColumns + `
WHERE (? = '' OR customer = ?)
ORDER BY created_at DESC, reference
LIMIT ?
`
