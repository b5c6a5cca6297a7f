// Package apirequest provides a single-flight request tracker for API calls:
// a hook-style primitive that issues asynchronous requests, tracks their
// lifecycle and reconciles out-of-order responses.
//
//   - Stale-response suppression via a per-instance attempt sequence
//   - Pure reducer over a small state record (loading / code / message / payload / error)
//   - Debounced or throttled invocation (mutually exclusive)
//   - Optimistic local mutation of the last-known payload
//   - Lifecycle callbacks (OnLoad, OnSuccess, OnFail, OnError, OnUnsuccessful)
//     delivered in order on a per-instance queue, after the state transition
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - Exactly one logical attempt is authoritative at a time
//   - No error ever escapes the public operations; failure is signalled
//     through state fields and callbacks
//   - Pluggable transport; a JSON envelope HTTP transport ships in the box
//
// Typical usage:
//
//	hook := apirequest.New(
//	    apirequest.NewHTTPTransport(nil, "https://api.example.com"),
//	    apirequest.WithPath("/order/list"),
//	    apirequest.WithOnSuccess(func(env apirequest.Envelope) {
//	        render(env.Payload)
//	    }),
//	)
//	defer hook.Close()
//
// Unless WithManual is given the hook fires once on construction; later calls
// to Send (optionally with a per-call Override) start fresh attempts, and a
// slower superseded attempt can never overwrite the state left by a newer one.
//
// The library avoids opinionated logging: provide a Logger (e.g. via
// WithSimpleLogger) + enable debug flags selectively (WithDebug /
// WithDebugConfig) for insight without noise.
package apirequest
