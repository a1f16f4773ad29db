// Package services implements the core business logic: text
// normalisation and segmentation, the multi-signal similarity engine,
// the threshold decision policy, and the submission orchestration that
// ties them to the corpus store.
package services
