package services

// AppState is the central state store handed to the view layer. It owns the
// session identity and both state containers.
type AppState struct {
	Session *SessionService
	Catalog *CatalogStore
	Cart    *CartStore
}

// Backend is everything the stores need from the remote API.
type Backend interface {
	CatalogAPI
	CartAPI
}

func NewAppState(session *SessionService, api Backend, policy FailurePolicy) *AppState {
	return &AppState{
		Session: session,
		Catalog: NewCatalogStore(api, policy),
		Cart:    NewCartStore(api, policy),
	}
}
