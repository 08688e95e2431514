// internal/app/system/sms/sms.go

// Package sms abstracts the messaging provider. Fan-out only uses the
// batch form; SendSingle exists for invite delivery and ad-hoc sends.
package sms

import "context"

// Sender dispatches text messages through the provider.
type Sender interface {
	SendSingle(ctx context.Context, to, body string) error
	SendBatch(ctx context.Context, recipients []string, body string) error
}
