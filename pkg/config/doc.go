// Package config fills env-tagged structs from the process environment using
// caarlos0/env, after loading an optional .env file with godotenv.
package config
