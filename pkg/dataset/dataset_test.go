package dataset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumoshq/lumos/pkg/dataset"
)

const sampleCSV = `post_id,post_type,topic,hashtags_used,likes,comments,shares,saves,reach,engagement_rate,audio_type
P001,reel,fitness,#fit #gym,1200,85,40,150,20000,4.2,trending
P002,reel,travel,#wanderlust,800,30,25,90,15000,3.1,original
P003,carousel,fitness,#fit #health,450,60,10,200,9000,5.0,none
`

func TestLoad(t *testing.T) {
	posts, err := dataset.Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, "P001", posts[0].PostID)
	assert.Equal(t, "reel", posts[0].PostType)
	assert.Equal(t, "fitness", posts[0].Topic)
	assert.Equal(t, "#fit #gym", posts[0].HashtagsUsed)
	assert.Equal(t, 1200.0, posts[0].Likes)
	assert.Equal(t, 85.0, posts[0].Comments)
	assert.Equal(t, 4.2, posts[0].EngagementRate)
	assert.Equal(t, "trending", posts[0].AudioType)
}

func TestLoadReorderedColumns(t *testing.T) {
	csv := `topic,post_id,likes,comments,shares,saves,reach,engagement_rate,audio_type,post_type,hashtags_used
travel,P009,10,1,2,3,100,1.5,original,video,#go
`
	posts, err := dataset.Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "P009", posts[0].PostID)
	assert.Equal(t, "video", posts[0].PostType)
	assert.Equal(t, 10.0, posts[0].Likes)
}

func TestLoadMissingColumn(t *testing.T) {
	csv := "post_id,post_type,topic\nP001,reel,fitness\n"
	_, err := dataset.Load(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestLoadBadNumber(t *testing.T) {
	csv := `post_id,post_type,topic,hashtags_used,likes,comments,shares,saves,reach,engagement_rate,audio_type
P001,reel,fitness,#fit,not-a-number,85,40,150,20000,4.2,trending
`
	_, err := dataset.Load(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "likes")
}

func TestByType(t *testing.T) {
	posts, err := dataset.Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	reels := dataset.ByType(posts, "reel")
	assert.Len(t, reels, 2)

	carousels := dataset.ByType(posts, "carousel")
	assert.Len(t, carousels, 1)

	// Empty type keeps everything
	assert.Len(t, dataset.ByType(posts, ""), 3)

	assert.Empty(t, dataset.ByType(posts, "story"))
}

func TestFind(t *testing.T) {
	posts, err := dataset.Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	post, err := dataset.Find(posts, "P002")
	require.NoError(t, err)
	assert.Equal(t, "travel", post.Topic)

	_, err = dataset.Find(posts, "P999")
	assert.ErrorIs(t, err, dataset.ErrPostNotFound)
}

func TestPostTypes(t *testing.T) {
	posts, err := dataset.Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"carousel", "reel"}, dataset.PostTypes(posts))
}

func TestVectorizeText(t *testing.T) {
	posts, err := dataset.Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, "summary: fitness | hashtags: #fit #gym", dataset.VectorizeText(posts[0]))
}
