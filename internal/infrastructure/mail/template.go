package mail

import "fmt"

// Wrap puts the message body into the standard storefront email frame.
func Wrap(body string) string {
	return fmt.Sprintf(`
	<div style="
		border: 1px solid black;
		padding: 20px;
		font-family: sans-serif;
		line-height: 2;
		font-size: 20px;
	">
		<h2>Hello There!</h2>
		<p>%s</p>
		<p>😘, The Storefront Team</p>
	</div>
	`, body)
}
