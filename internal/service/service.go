// Package service implements the application services behind the HTTP
// handlers: identity, profiles, tournaments, shop and content. Wallet and
// request flows live in the workflow package; all ZC movement goes through
// the ledger engine.
package service

// normalizeListLimit applies the default page size and the hard cap.
func normalizeListLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 100 {
		return 100
	}
	return limit
}
