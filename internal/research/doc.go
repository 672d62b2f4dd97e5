// Package research implements the club research cache.
//
// Research is fetched from the AI generator once per club and cached for a
// fixed TTL (30 days by default). A single generator call produces the
// material for all three email stages at once; reads for any stage within
// the TTL are served from the cache at zero cost. Expiry is checked lazily
// on read, and a stale record is replaced wholesale, never patched.
//
// Generator failures never propagate: the cache stores clearly-labeled
// fallback text instead, so downstream email generation is never blocked by
// a flaky provider.
package research
