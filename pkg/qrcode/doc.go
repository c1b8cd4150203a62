// Package qrcode renders QR codes for the bot handoff deep link, so a user
// on desktop can scan it with the phone that runs Telegram.
//
//	uri, err := qrcode.DataURI(telegram.DeepLink(bot, token), 0)
//	if err != nil {
//		return err
//	}
//	// <img src="{uri}">
package qrcode
