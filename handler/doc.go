// Package handler provides typed HTTP handlers and the response types used by
// the HTTP modules.
//
// A HandlerFunc receives a Context and a request value populated by binders,
// and returns a Response:
//
//	type ClaimRequest struct {
//		Token string `path:"token"`
//		Wait  int    `query:"wait"`
//	}
//
//	func (s *Service) claim(ctx handler.Context, req ClaimRequest) handler.Response {
//		rec, err := s.sessions.GetByAuthToken(ctx, req.Token)
//		if err != nil {
//			return handler.JSONError(handler.ErrNotFound)
//		}
//		return handler.JSON(rec.Profile)
//	}
//
//	r.Get("/handoff/{token}", handler.Wrap(s.claim,
//		handler.WithBinders[ClaimRequest](binder.Path(chi.URLParam), binder.Query()),
//	))
//
// # Responses
//
// JSON and JSONError write the {data, meta, error} envelope. Templ renders a
// templ component as HTML, or as a datastar SSE patch when the request comes
// from the datastar client. Redirect answers 303, or an SSE redirect for
// datastar. NoContent answers 204.
//
// # Errors
//
// HTTPError carries a status code and a stable key. NewErrorHandler builds
// the error handler shared by modules; it logs with the request id and picks
// the representation from the request (JSON envelope, datastar fragment or
// error page).
package handler
