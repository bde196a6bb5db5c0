// Package call defines the network call abstraction the repository layer
// depends on.
//
// A [Call] is a cold, single-shot operation: it carries a method and a URL and
// starts only when [Call.Enqueue] is invoked. Completion is reported through a
// [Callback] exactly once, either as a [Response] (2xx or not) or as a
// transport failure. Reusing a started call is a programming error; use
// [Call.Clone] to obtain a fresh, unstarted copy.
package call
