// Package binder populates request structs from JSON bodies, query strings
// and route parameters.
//
//	type ClaimRequest struct {
//		Token string `path:"token"`
//		Wait  int    `query:"wait"`
//	}
//
//	handler.Wrap(claim, handler.WithBinders[ClaimRequest](
//		binder.Path(chi.URLParam),
//		binder.Query(),
//	))
//
// Only tagged fields are bound. Pointer fields become optional values, slice
// fields accept repeated or comma-separated parameters.
package binder
