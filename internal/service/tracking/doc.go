// Package tracking implements open and click ingestion.
//
// Ingestion never fails the caller: an email client loading the pixel or
// following a link must always get the image or the redirect. Storage and
// geolocation failures degrade to "nothing recorded" and are logged and
// counted instead. The only error surfaced is an unknown link id, because
// there is no redirect target to send the client to.
//
// Each step is a separate storage operation. The ignored-IP check and the
// event write are not transactional, so an IP added to the ignore list
// mid-request may still have that one event recorded.
package tracking
