package market

// Cache keys are derived from the logical query they hold.
const (
	keyAllListings      = "listings:all"
	ownerListingsPrefix = "listings:owner:"
	listingPrefix       = "listing:"
	profilePrefix       = "profile:"
)

func allListingsKey() string {
	return keyAllListings
}

func ownerListingsKey(ownerID string) string {
	return ownerListingsPrefix + ownerID
}

func listingKey(id string) string {
	return listingPrefix + id
}

func profileKey(actorID string) string {
	return profilePrefix + actorID
}
