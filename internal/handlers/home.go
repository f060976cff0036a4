package handlers

import "net/http"

// Home sends signed-in merchants to their panel and everyone else to login.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if ActiveSession(r) {
		redirectToApp(w, r)
		return
	}
	redirectToLogin(w, r)
}
