// Package hushbox provides a Go client SDK for Hushbox, a zero-knowledge
// service for sharing secrets through self-destructing links.
//
// Secrets are encrypted locally with AES-256-CBC before anything leaves the
// process; the server only ever stores ciphertext. The encryption key is
// appended to the share link as a URL fragment, which HTTP clients do not
// transmit, so possession of the full link is the only way to read the
// secret.
//
// Basic usage:
//
//	client, err := hushbox.New("https://hush.example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Share a secret that disappears after its first view
//	result, err := client.Share(ctx, &hushbox.Secret{Text: "db password: hunter2"},
//	    hushbox.WithExpiry(hushbox.Expiry1Hour),
//	    hushbox.WithPin("4312"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Share link:", result.Link)
//
//	// The recipient opens the link (consuming it, if one-time)
//	opened, err := client.Open(ctx, result.Link, "4312")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(opened.Text)
package hushbox
