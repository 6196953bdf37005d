package mysql

const insertUserSQL = `
INSERT INTO users (id, email, name, image, role)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  image      = VALUES(image),
  role       = VALUES(role),
  updated_at = CURRENT_TIMESTAMP
`

const getUserSQL = `
SELECT id, email, name, image, role, created_at, updated_at
FROM users
WHERE id = ?
`

const getUserByEmailSQL = `
SELECT id, email, name, image, role, created_at, updated_at
FROM users
WHERE email = ?
`

const insertHotelSQL = `
INSERT INTO hotels
  (id, name, address, city, country, phone, email, website, description, latitude, longitude)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getHotelSQL = `
SELECT id, name, address, city, country, phone, email, website, description,
       latitude, longitude, created_at, updated_at
FROM hotels
WHERE id = ?
`

const listHotelsSQL = `
SELECT h.id, h.name, h.address, h.city, h.country, h.phone, h.email, h.website,
       h.description, h.latitude, h.longitude, h.created_at, h.updated_at,
       COUNT(i.id) AS inspection_count
FROM hotels h
LEFT JOIN inspections i ON i.hotel_id = h.id
GROUP BY h.id
ORDER BY h.created_at DESC
`

const updateHotelSQL = `
UPDATE hotels
SET name = ?, address = ?, city = ?, country = ?, phone = ?, email = ?,
    website = ?, description = ?, latitude = ?, longitude = ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

const insertChecklistItemSQL = `
INSERT INTO checklist_items (id, category, item_name, description, weight, display_order, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const listChecklistItemsSQL = `
SELECT id, category, item_name, description, weight, display_order, is_active
FROM checklist_items
WHERE is_active = 1
ORDER BY category, display_order
`

const insertInspectionSQL = `
INSERT INTO inspections
  (id, hotel_id, inspector_id, status, inspection_date, notes,
   overall_rating, follow_up_required, follow_up_notes, completed_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getInspectionSQL = `
SELECT id, hotel_id, inspector_id, status, inspection_date, notes,
       overall_rating, follow_up_required, follow_up_notes, completed_at,
       created_at, updated_at
FROM inspections
WHERE id = ?
`

const updateInspectionSQL = `
UPDATE inspections
SET status = ?, notes = ?, overall_rating = ?, follow_up_required = ?,
    follow_up_notes = ?, completed_at = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const listInspectionsPrefix = `
SELECT i.id, i.hotel_id, i.inspector_id, i.status, i.inspection_date, i.notes,
       i.overall_rating, i.follow_up_required, i.follow_up_notes, i.completed_at,
       i.created_at, i.updated_at,
       h.name, h.city,
       u.id, u.name, u.email
FROM inspections i
JOIN hotels h ON h.id = i.hotel_id
JOIN users u ON u.id = i.inspector_id
`

// The per-item unique key makes the second write for the same
// (inspection, checklist item) overwrite in place.
const upsertResultSQL = `
INSERT INTO inspection_results
  (id, inspection_id, checklist_item_id, result, rating, notes, photo_urls)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  result     = VALUES(result),
  rating     = VALUES(rating),
  notes      = VALUES(notes),
  photo_urls = VALUES(photo_urls),
  updated_at = CURRENT_TIMESTAMP
`

const getResultByKeySQL = `
SELECT id, inspection_id, checklist_item_id, result, rating, notes, photo_urls,
       created_at, updated_at
FROM inspection_results
WHERE inspection_id = ? AND checklist_item_id = ?
`

const listResultsSQL = `
SELECT id, inspection_id, checklist_item_id, result, rating, notes, photo_urls,
       created_at, updated_at
FROM inspection_results
WHERE inspection_id = ?
`

const listResultDetailsSQL = `
SELECT r.id, r.inspection_id, r.checklist_item_id, r.result, r.rating, r.notes,
       r.photo_urls, r.created_at, r.updated_at,
       c.id, c.category, c.item_name, c.description, c.weight, c.display_order, c.is_active
FROM inspection_results r
JOIN checklist_items c ON c.id = r.checklist_item_id
WHERE r.inspection_id = ?
ORDER BY c.category, c.display_order
`

const photoURLsSQL = `
SELECT photo_urls
FROM inspection_results
WHERE photo_urls IS NOT NULL
`

const countHotelsSQL = `SELECT COUNT(*) FROM hotels`

const inspectionCountsSQL = `
SELECT COUNT(*),
       COALESCE(SUM(status IN ('COMPLETED','APPROVED')), 0),
       COALESCE(SUM(inspection_date >= ?), 0)
FROM inspections
`

const avgRatingSQL = `
SELECT COALESCE(AVG(overall_rating), 0)
FROM inspections
WHERE overall_rating IS NOT NULL
`
