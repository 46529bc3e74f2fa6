package notification

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/iyhunko/shop-with-sqs/internal/model"
)

// ErrUnknownKind is returned for a notification kind without a template.
var ErrUnknownKind = errors.New("unknown notification kind")

// Mail is a rendered, addressed email.
type Mail struct {
	To       string
	Subject  string
	HTMLBody string
}

type mailTemplate struct {
	subjectSuffix string
	body          *template.Template
}

const signature = `
<p>ধন্যবাদান্তে,</p>
<p><b>{{.ShopName}}</b></p>`

var templates = map[model.NotificationKind]mailTemplate{
	model.NotificationCancelled: {
		subjectSuffix: "বাতিল করা হয়েছে",
		body: template.Must(template.New("cancelled").Parse(`<h3>আপনার অর্ডার বাতিল করা হয়েছে</h3>
<p>দুঃখিত, আপনার অর্ডার #{{.ShortID}} আমাদের পক্ষ থেকে বাতিল করা হয়েছে।</p>
<p>অর্ডার সংক্রান্ত কোনো প্রশ্ন থাকলে, আমাদের সাথে যোগাযোগ করুন।</p>` + signature)),
	},
	model.NotificationCompleted: {
		subjectSuffix: "সম্পন্ন হয়েছে",
		body: template.Must(template.New("completed").Parse(`<h3>আপনার অর্ডারটি সফলভাবে সম্পন্ন হয়েছে!</h3>
<p>আপনার অর্ডার #{{.ShortID}} প্রস্তুত এবং ডেলিভারির জন্য পাঠানো হয়েছে।</p>
<p>আমাদের সাথে থাকার জন্য ধন্যবাদ।</p>` + signature)),
	},
	model.NotificationPreparing: {
		subjectSuffix: "প্রস্তুত হচ্ছে",
		body: template.Must(template.New("preparing").Parse(`<h3>আপনার অর্ডারটি প্রস্তুত করা হচ্ছে!</h3>
<p>আমরা আপনার অর্ডার #{{.ShortID}} পেয়েছি এবং এটি এখন প্রস্তুত করা হচ্ছে।</p>` + signature)),
	},
	model.NotificationShipped: {
		subjectSuffix: "পাঠানো হয়েছে",
		body: template.Must(template.New("shipped").Parse(`<h3>আপনার অর্ডারটি পাঠানো হয়েছে!</h3>
<p>আপনার অর্ডার #{{.ShortID}} ডেলিভারির জন্য পাঠানো হয়েছে এবং শীঘ্রই আপনার কাছে পৌঁছাবে।</p>
<p>আমাদের সাথে থাকার জন্য ধন্যবাদ।</p>` + signature)),
	},
}

// Render builds the subject and HTML body for kind. The recipient is left empty.
func Render(kind model.NotificationKind, shortID, shopName string) (Mail, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return Mail{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var body bytes.Buffer
	data := struct{ ShortID, ShopName string }{ShortID: shortID, ShopName: shopName}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return Mail{}, fmt.Errorf("failed to render %s mail: %w", kind, err)
	}

	return Mail{
		Subject:  fmt.Sprintf(`আপনার "%s" এর অর্ডার #%s %s`, shopName, shortID, tmpl.subjectSuffix),
		HTMLBody: body.String(),
	}, nil
}
