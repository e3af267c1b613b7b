package mysql

const upsertUsersPrefix = "INSERT INTO users\n  (id, first_name, last_name, email)\nVALUES "

const upsertUsersOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  first_name = VALUES(first_name),\n" +
	"  last_name  = VALUES(last_name),\n" +
	"  email      = VALUES(email)\n"

const upsertCompaniesPrefix = "INSERT INTO companies\n  (id, name)\nVALUES "

const upsertCompaniesOnDup = " ON DUPLICATE KEY UPDATE\n  name = VALUES(name)\n"

// Row placeholders wrap created_on in COALESCE(?, CURRENT_TIMESTAMP(3)) to allow "unknown" timestamps.
const upsertReviewsPrefix = "INSERT INTO reviews\n  (id, review_text, rating, created_on, reviewer_id, company_id)\nVALUES "

const upsertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  review_text = VALUES(review_text),\n" +
	"  rating      = VALUES(rating),\n" +
	"  created_on  = VALUES(created_on),\n" +
	"  reviewer_id = VALUES(reviewer_id),\n" +
	"  company_id  = VALUES(company_id)\n"

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const countReviewsSQL = `SELECT COUNT(*) FROM reviews`

// Newest first; id breaks ties so pages never overlap. Matches idx_reviews_created.
const findPageSQL = `
SELECT
  r.id,
  r.review_text,
  r.rating,
  r.created_on,
  r.reviewer_id,
  r.company_id,
  u.id,
  u.first_name,
  u.last_name,
  u.email,
  c.id,
  c.name
FROM reviews r
JOIN users u     ON u.id = r.reviewer_id
JOIN companies c ON c.id = r.company_id
ORDER BY r.created_on DESC, r.id DESC
LIMIT ? OFFSET ?
`
