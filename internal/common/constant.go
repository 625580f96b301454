package common

// Keys of the client-side key/value store.
const (
	AuthTokenKey = "authToken"
	UserDataKey  = "userData"
	ContactsKey  = "bitnet_contacts"

	// LegacyContactsKey is still read when ContactsKey is absent.
	LegacyContactsKey = "savedContacts"
)

// AuthorizationHeaderName carries "Bearer <token>" on outbound requests.
const AuthorizationHeaderName = "Authorization"
