// Package tracking serves the public ingestion endpoints embedded in
// outgoing email: the open pixel and the click redirect. It also fans
// recorded events out to SQS for downstream consumers.
package tracking
