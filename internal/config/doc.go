// Package config provides configuration parsing for vroute hosts.
//
// The configuration is stored in vroute.json at the project root. Values
// can be overridden from the environment, typically through a .env file
// loaded with LoadEnv, which keeps deploy-specific settings such as the
// base URL and S3 credentials out of the committed file.
//
// # Configuration File Structure
//
//	{
//	  "name": "finance",
//	  "base": "/app",
//	  "host": "0.0.0.0",
//	  "port": 8080,
//	  "metrics": true,
//	  "navigationTimeout": "10s",
//	  "modules": {
//	    "source": "s3",
//	    "s3": {
//	      "bucket": "finance-views",
//	      "prefix": "modules",
//	      "region": "eu-west-1"
//	    }
//	  }
//	}
//
// # Environment
//
//	BASE_URL                  base prefix
//	VROUTE_HOST, VROUTE_PORT  listen address
//	VROUTE_METRICS            "true" exposes /metrics
//	VROUTE_MODULES_SOURCE     embed | fs | s3
//	VROUTE_MODULES_DIR        directory for the fs source
//	VROUTE_MODULES_BUCKET, VROUTE_MODULES_PREFIX, VROUTE_MODULES_REGION,
//	VROUTE_MODULES_ENDPOINT, VROUTE_MODULES_ACCESS_KEY,
//	VROUTE_MODULES_SECRET_KEY
//
// # Usage
//
//	if err := config.LoadEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ApplyEnv(); err != nil {
//	    log.Fatal(err)
//	}
package config
