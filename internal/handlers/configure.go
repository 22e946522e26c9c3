package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleConfigure serves the configuration HTML page. The page builds the
// base64url configuration segment client-side and hands out the install
// link.
func (h *Handler) handleConfigure(c *gin.Context) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Flix-Finder Configuration</title>
  <style>
    * { box-sizing: border-box; }
    body {
      font-family: sans-serif;
      background-color: #f7f9fc;
      color: #333;
      margin: 0;
      padding: 20px;
      display: flex;
      align-items: center;
      justify-content: center;
      min-height: 100vh;
    }
    .container {
      background-color: #fff;
      border-radius: 8px;
      padding: 30px;
      max-width: 520px;
      width: 100%;
      box-shadow: 0 4px 12px rgba(0, 0, 0, 0.1);
    }
    h1 { text-align: center; color: #4a90e2; }
    label { font-weight: 500; margin-top: 15px; display: block; }
    input, select {
      width: 100%;
      padding: 10px;
      border: 1px solid #ccc;
      border-radius: 4px;
      margin-top: 5px;
      font-size: 1rem;
    }
    button {
      background-color: #4a90e2;
      color: #fff;
      border: none;
      padding: 12px 20px;
      border-radius: 4px;
      font-size: 1rem;
      cursor: pointer;
      margin-top: 25px;
      width: 100%;
    }
    .result { margin-top: 25px; word-break: break-all; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Flix-Finder</h1>
    <label for="quality">Quality (comma separated, empty = any)</label>
    <input id="quality" placeholder="2160p,1080p">
    <label for="exclude">Exclude keywords</label>
    <input id="exclude" placeholder="cam,hdts">
    <label for="sort">Sort</label>
    <select id="sort">
      <option value="quality_seeders">Quality, then seeders</option>
      <option value="quality_size">Quality, then size</option>
      <option value="seeders">Seeders</option>
      <option value="size">Size</option>
    </select>
    <label for="maxResults">Max results</label>
    <input id="maxResults" type="number" value="10">
    <label for="debrid">Debrid service</label>
    <select id="debrid">
      <option value="">None (magnet links)</option>
      <option value="realdebrid">Real-Debrid</option>
      <option value="alldebrid">AllDebrid</option>
      <option value="torbox">TorBox</option>
      <option value="debridlink">Debrid-Link</option>
      <option value="premiumize">Premiumize</option>
      <option value="offcloud">Offcloud</option>
      <option value="putio">put.io</option>
      <option value="easydebrid">EasyDebrid</option>
    </select>
    <label for="debridToken">Debrid API token</label>
    <input id="debridToken" placeholder="API token">
    <button onclick="install()">Generate install link</button>
    <div class="result" id="result"></div>
  </div>
  <script>
    function install() {
      const cfg = {
        quality: document.getElementById('quality').value,
        exclude: document.getElementById('exclude').value,
        sort: document.getElementById('sort').value,
        maxResults: document.getElementById('maxResults').value,
        debrid: document.getElementById('debrid').value,
        debridToken: document.getElementById('debridToken').value,
      };
      const encoded = btoa(JSON.stringify(cfg))
        .replace(/\+/g, '-').replace(/\//g, '_').replace(/=+$/, '');
      const link = window.location.host + '/' + encoded + '/manifest.json';
      document.getElementById('result').innerHTML =
        '<a href="stremio://' + link + '">Install in Stremio</a><br>https://' + link;
    }
  </script>
</body>
</html>`
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
