package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"credlocker/internal/track"
	httpez "credlocker/internal/transport/http/ez"
)

// 演练活动/模板目前是静态演示数据（原系统同款 mock）；
// 点击埋点是真实落库的。
type campaignRow struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Template    string `json:"template,omitempty"`
	TargetGroup string `json:"targetGroup,omitempty"`
	Status      string `json:"status"`
	Sent        int    `json:"sent"`
	Clicked     int    `json:"clicked"`
}

type templateRow struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	Category    string `json:"category"`
}

var demoStats = gin.H{
	"totalUsers":      150,
	"activeCampaigns": 3,
	"clickRate":       23,
	"totalTemplates":  8,
}

var demoTemplates = []templateRow{
	{ID: 1, Name: "Fake Password Reset", Subject: "Urgent: Password Reset Required", SenderName: "IT Support", SenderEmail: "it@company.com", Category: "phishing"},
	{ID: 2, Name: "Suspicious Invoice", Subject: "Invoice Payment Required", SenderName: "Accounting", SenderEmail: "billing@company.com", Category: "spear-phishing"},
}

var demoCampaigns = []campaignRow{
	{ID: 1, Name: "Q4 Security Test", Template: "Fake Password Reset", TargetGroup: "Sales", Status: "Completed", Sent: 50, Clicked: 12},
	{ID: 2, Name: "New Employee Training", Template: "Suspicious Invoice", TargetGroup: "Engineering", Status: "Active", Sent: 25, Clicked: 5},
}

func mountCampaignActions(authUser *gin.RouterGroup) {
	ezAuth := httpez.New(authUser)

	ezAuth.GET("/dashboard", func(c *gin.Context) (any, error) {
		return gin.H{"stats": demoStats, "recentCampaigns": demoCampaigns}, nil
	})

	ezAuth.GET("/campaigns", func(c *gin.Context) (any, error) {
		return demoCampaigns, nil
	})

	ezAuth.GET("/templates", func(c *gin.Context) (any, error) {
		return demoTemplates, nil
	})

	httpez.RegisterAction[struct{}, gin.H](ezAuth, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/templates/:id/preview",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			for _, t := range demoTemplates {
				if id == strconv.Itoa(t.ID) {
					return gin.H{
						"subject": t.Subject,
						"body":    "<p>This is a preview of the " + t.Name + " template.</p><p>Click <a href=\"/track/1/1\">here</a> to continue.</p>",
					}, nil
				}
			}
			return nil, httpez.NotFound("template not found")
		},
	})
}

// mountTrackRoute 演练追踪口：无鉴权（被钓目标点击进来），每次点击记一行
func mountTrackRoute(r *gin.Engine, repo *track.Repo, l *zap.Logger) {
	r.GET("/track/:campaignId/:userId", func(c *gin.Context) {
		ev := &track.ClickEvent{
			CampaignID: c.Param("campaignId"),
			UserID:     c.Param("userId"),
			ClientIP:   c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}
		l.Info("campaign click",
			zap.String("campaign", ev.CampaignID),
			zap.String("user", ev.UserID),
			zap.String("ip", ev.ClientIP),
		)
		if repo != nil {
			if err := repo.Record(ev); err != nil {
				l.Error("record click failed", zap.Error(err))
			}
		}
		c.JSON(http.StatusOK, gin.H{"tracked": true})
	})
}
