/*
Package gate enforces the sequential progression of the assessment.

Given a requested page path and the session's stage flags, Evaluate either allows the
navigation or redirects to the first stage whose predecessors are not yet complete.
Without a session, protected pages redirect to the login page; with one, the login page
redirects to the furthest reachable stage.

	d := gate.Evaluate("/technical-domain", &session.Flags)
	if !d.Allowed() {
		http.Redirect(w, r, d.Target, http.StatusTemporaryRedirect)
	}
*/
package gate
