// Package api implements the wire format of the Hi-Rez Smite API.
//
// The API has no query parameters and no request bodies: every call is a GET
// whose path carries the method name, the developer id, an MD5 signature, an
// optional session id, the signing timestamp and any method arguments, in
// that order. This package builds those paths, signs them, constructs the
// HTTP requests and classifies raw response bodies. Session handling and
// decoding into typed values live in package client.
package api
