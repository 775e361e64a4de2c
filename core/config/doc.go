// Package config provides configuration management for the reconciler.
//
// It loads a .env file with godotenv and resolves every setting through
// Viper, using the 'default' struct tags of each section as defaults.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, body limit
//   - Storage: S3/MinIO credentials and bucket
//   - Log: level and format
//   - Database: optional run history connection
//   - Reconcile: default modifier criteria, export prefix, history limit
//
// Environment keys are the upper-cased dotted path with underscores, e.g.
// RECONCILE_CRITERIA_ROOT25=true.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
