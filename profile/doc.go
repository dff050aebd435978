// Package profile saves and loads calibration profiles.
//
// A profile file is the encoded kmersim.Profile, optionally wrapped in a
// compressed block. The file extension selects the compression:
//
//	profile.json      plain JSON
//	profile.json.zst  ZSTD
//	profile.json.lz4  LZ4
//
// Put, Get, Export and Import work against any blobstore.BlobStore, so a
// profile can live on local disk, in S3 or in MinIO. SaveFile and LoadFile
// are shorthands for a blobstore.LocalStore rooted at the file's directory.
//
// Profiles let one run calibrate on a large sample and later runs install the
// same bounds with Registry.ApplyProfile instead of recalibrating.
package profile
