// Package environment carries the deployment stage (development, staging,
// production) through request contexts and into log records.
package environment
