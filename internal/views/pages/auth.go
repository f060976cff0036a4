package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"keyiflimasa/internal/views/components"
	"keyiflimasa/internal/views/layout"
	"keyiflimasa/internal/views/theme"
)

// SignupForm keeps the values a merchant typed so a failed submission can be
// shown again.
type SignupForm struct {
	FullName string
	ShopName string
	Email    string
	Phone    string
}

func Login(message, email string) templ.Component {
	return layout.Layout("Giriş Yap · Keyifli Masa", nil, LoginPartial(message, email))
}

func LoginPartial(message, email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<section id="auth-panel" class="auth-card"><h1 class="font-display text-2xl font-bold">Tekrar hoş geldin 👋</h1>`)
		hw.Component(ctx, components.Flash(message, true))
		hw.Raw(`<form method="post" action="/login" hx-post="/login" hx-target="#auth-panel" hx-swap="outerHTML">`)
		hw.Raw(`<label>E-posta<input type="email" name="email" required autocomplete="email"`)
		hw.Attr("value", email)
		hw.Raw(`></label><label>Şifre<input type="password" name="password" required autocomplete="current-password"></label>`)
		hw.Raw(`<button type="submit"`)
		hw.Attr("class", theme.AccentButton)
		hw.Raw(`>Giriş Yap</button></form><p>Hesabın yok mu? <a href="/signup">Dükkanını aç</a></p></section>`)
		return hw.Err()
	})
}

func Signup(message string, form SignupForm) templ.Component {
	return layout.Layout("Dükkanını Aç · Keyifli Masa", nil, SignupPartial(message, form))
}

func SignupPartial(message string, form SignupForm) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := components.NewWriter(w)
		hw.Raw(`<section id="auth-panel" class="auth-card"><h1 class="font-display text-2xl font-bold">Dükkanını aç 🍲</h1>`)
		hw.Component(ctx, components.Flash(message, true))
		hw.Raw(`<form method="post" action="/signup" hx-post="/signup" hx-target="#auth-panel" hx-swap="outerHTML">`)
		field := func(label, name, kind, value string) {
			hw.Raw(`<label>`)
			hw.Text(label)
			hw.Raw(`<input`)
			hw.Attr("type", kind)
			hw.Attr("name", name)
			hw.Attr("value", value)
			hw.Raw(`></label>`)
		}
		field("Ad Soyad", "full_name", "text", form.FullName)
		field("Dükkan Adı", "shop_name", "text", form.ShopName)
		field("Telefon", "phone", "tel", form.Phone)
		field("E-posta", "email", "email", form.Email)
		hw.Raw(`<label>Şifre<input type="password" name="password" minlength="8" required></label>`)
		hw.Raw(`<label>Şifre (tekrar)<input type="password" name="confirm_password" minlength="8" required></label>`)
		hw.Raw(`<button type="submit"`)
		hw.Attr("class", theme.AccentButton)
		hw.Raw(`>Kayıt Ol</button></form><p>Zaten hesabın var mı? <a href="/login">Giriş yap</a></p></section>`)
		return hw.Err()
	})
}
