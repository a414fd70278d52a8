// Package domain contains the core domain entities shared across the
// application: phishing detection records, URL safety reports and decoded QR
// payloads. These types represent business concepts and are intentionally
// free of infrastructure concerns so they can be shared across packages.
package domain
