// Package kaltura implements kmeta.MetadataStore against the media platform's
// REST API (api_v3).
//
// Every call is a form-encoded POST to
//
//	{serviceURL}/api_v3/service/{service}/action/{action}
//
// with format=1 so responses are JSON. Failures reported by the API arrive as a
// KalturaAPIException object in a 200 response and surface as *APIError.
//
// An admin session (KS) is started lazily on the first call and reused until
// the API reports it invalid or expired, at which point it is restarted once.
// Transport failures and throttling are retried through retry.Executor except
// for metadata.add, which is not idempotent.
package kaltura
