package sqlstore

const hotelColumns = "h.id, h.name, h.stars, h.page_url, h.photo"

const (
	insertHotelSQL       = `INSERT INTO hotels (name, stars, page_url, photo) VALUES (?, ?, ?, ?)`
	insertHotelWithIDSQL = `INSERT INTO hotels (id, name, stars, page_url, photo) VALUES (?, ?, ?, ?, ?)`
	updateHotelSQL       = `UPDATE hotels SET name = ?, stars = ?, page_url = ?, photo = ? WHERE id = ?`
	getHotelSQL          = `SELECT ` + hotelColumns + ` FROM hotels h WHERE h.id = ?`
	listHotelsSQL        = `SELECT ` + hotelColumns + ` FROM hotels h ORDER BY h.id`
	deleteHotelSQL       = `DELETE FROM hotels WHERE id = ?`

	listHotelsByFacilitySQL = `
SELECT ` + hotelColumns + `
FROM hotels h
JOIN hotel_facilities hf ON hf.hotel_id = h.id
WHERE hf.facility_name = ?
ORDER BY h.id`
)

const (
	insertFacilitySuffix      = ` INTO facilities (name) VALUES (?)`
	getFacilitySQL            = `SELECT name FROM facilities WHERE name = ?`
	listFacilitiesSQL         = `SELECT name FROM facilities ORDER BY name`
	insertHotelFacilitySQL    = `INSERT INTO hotel_facilities (hotel_id, facility_name) VALUES (?, ?)`
	deleteHotelFacilitiesSQL  = `DELETE FROM hotel_facilities WHERE hotel_id = ?`
	hotelsOfFacilitySQL       = `SELECT hotel_id FROM hotel_facilities WHERE facility_name = ? ORDER BY hotel_id`
	allFacilityLinksSQL       = `SELECT hotel_id, facility_name FROM hotel_facilities ORDER BY facility_name, hotel_id`
	facilityLinksForHotelsSQL = `SELECT hotel_id, facility_name FROM hotel_facilities WHERE hotel_id IN (%s) ORDER BY hotel_id, facility_name`
)

const (
	insertPersonSQL = `INSERT INTO persons (username) VALUES (?)`
	getPersonSQL    = `SELECT id, username FROM persons WHERE username = ?`
	renamePersonSQL = `UPDATE persons SET username = ? WHERE id = ?`
	deletePersonSQL = `DELETE FROM persons WHERE id = ?`
)

// Wishlist reads always join the owner so the username travels with the row.
const wishListSelect = `
SELECT w.id, w.name, w.owner_id, p.username, w.sharing_code
FROM wishlists w
JOIN persons p ON p.id = w.owner_id`

const (
	insertWishListSQL      = `INSERT INTO wishlists (owner_id, name, sharing_code) VALUES (?, ?, ?)`
	getWishListSQL         = wishListSelect + ` WHERE w.owner_id = ? AND w.name = ?`
	getWishListByCodeSQL   = wishListSelect + ` WHERE w.sharing_code = ?`
	listWishListsSQL       = wishListSelect + ` WHERE w.owner_id = ? ORDER BY w.id`
	wishListNameTakenSQL   = `SELECT COUNT(*) FROM wishlists WHERE owner_id = ? AND name = ?`
	renameWishListSQL      = `UPDATE wishlists SET name = ? WHERE id = ?`
	deleteWishListSQL      = `DELETE FROM wishlists WHERE id = ?`
	deleteOwnerWishListSQL = `DELETE FROM wishlists WHERE owner_id = ?`

	insertMemberSQL          = `INSERT INTO wishlist_hotels (wishlist_id, hotel_id) VALUES (?, ?)`
	deleteMemberSQL          = `DELETE FROM wishlist_hotels WHERE wishlist_id = ? AND hotel_id = ?`
	deleteMembersSQL         = `DELETE FROM wishlist_hotels WHERE wishlist_id = ?`
	deleteOwnerMembersSQL    = `DELETE FROM wishlist_hotels WHERE wishlist_id IN (SELECT id FROM wishlists WHERE owner_id = ?)`
	deleteHotelMembershipSQL = `DELETE FROM wishlist_hotels WHERE hotel_id = ?`

	membersForWishListsSQL = `
SELECT wh.wishlist_id, ` + hotelColumns + `
FROM wishlist_hotels wh
JOIN hotels h ON h.id = wh.hotel_id
WHERE wh.wishlist_id IN (%s)
ORDER BY wh.wishlist_id, h.id`
)
