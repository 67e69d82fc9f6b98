package dataforseo

import (
	"fmt"

	"github.com/serpops/backend/internal/domain"
)

// statusOK is the DataForSEO success code reported inside an HTTP 200 body
const statusOK = 20000

type serpTask struct {
	Keyword      string `json:"keyword"`
	LocationName string `json:"location_name"`
	LanguageName string `json:"language_name"`
	Depth        int    `json:"depth,omitempty"`
}

type contentParsingTask struct {
	URL                    string `json:"url"`
	EnableJavascript       bool   `json:"enable_javascript"`
	EnableBrowserRendering bool   `json:"enable_browser_rendering"`
}

// envelope carries the status reported at the top level and on each task
type envelope struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func (e envelope) check() error {
	if e.StatusCode != 0 && e.StatusCode != statusOK {
		return fmt.Errorf("%w: status_code %d: %s", domain.ErrProviderFailure, e.StatusCode, e.StatusMessage)
	}
	return nil
}

type serpResponse struct {
	envelope
	Tasks []struct {
		envelope
		Result []struct {
			Items []serpItem `json:"items"`
		} `json:"result"`
	} `json:"tasks"`
}

type serpItem struct {
	Type        string  `json:"type"`
	RankGroup   *int    `json:"rank_group"`
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (r *serpResponse) check() error {
	if err := r.envelope.check(); err != nil {
		return err
	}
	if len(r.Tasks) > 0 {
		return r.Tasks[0].envelope.check()
	}
	return nil
}

// items returns tasks[0].result[0].items, or nil when the path is absent.
func (r *serpResponse) items() []serpItem {
	if len(r.Tasks) == 0 || len(r.Tasks[0].Result) == 0 {
		return nil
	}
	return r.Tasks[0].Result[0].Items
}

type contentParsingResponse struct {
	envelope
	Tasks []struct {
		envelope
		Result []struct {
			Items []contentItem `json:"items"`
		} `json:"result"`
	} `json:"tasks"`
}

func (r *contentParsingResponse) check() error {
	if err := r.envelope.check(); err != nil {
		return err
	}
	if len(r.Tasks) > 0 {
		return r.Tasks[0].envelope.check()
	}
	return nil
}

type contentItem struct {
	Type        string       `json:"type"`
	PageContent *pageContent `json:"page_content"`
}

type pageContent struct {
	Header         *contentSection `json:"header"`
	Footer         *contentSection `json:"footer"`
	MainTopic      []topicBlock    `json:"main_topic"`
	SecondaryTopic []topicBlock    `json:"secondary_topic"`
}

type contentSection struct {
	PrimaryContent   []textBlock `json:"primary_content"`
	SecondaryContent []textBlock `json:"secondary_content"`
}

type topicBlock struct {
	HTitle           string      `json:"h_title"`
	Level            int         `json:"level"`
	PrimaryContent   []textBlock `json:"primary_content"`
	SecondaryContent []textBlock `json:"secondary_content"`
}

type textBlock struct {
	Text string `json:"text"`
}
